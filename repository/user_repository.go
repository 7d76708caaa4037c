package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"gorm.io/gorm"
)

// UserRepository only talks to the users table.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// FindByEmail matches case-insensitively. The bool is false when no user
// has that email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, bool, error) {
	var user entity.User
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, bool, error) {
	var user entity.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (r *UserRepository) Create(tx *gorm.DB, user *entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return tx.Create(user).Error
}
