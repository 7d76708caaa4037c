package repository

import (
	"context"
	"errors"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Save replaces whatever session the device held.
func (r *SessionRepository) Save(tx *gorm.DB, s *entity.Session) error {
	if err := tx.Where("owner_key = ?", s.OwnerKey).Delete(&entity.Session{}).Error; err != nil {
		return err
	}
	return tx.Omit("User").Create(s).Error
}

func (r *SessionRepository) FindByOwner(ctx context.Context, ownerKey string) (*entity.Session, bool, error) {
	return r.first(r.DB.WithContext(ctx).Where("owner_key = ?", ownerKey))
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*entity.Session, bool, error) {
	return r.first(r.DB.WithContext(ctx).Where("token = ?", token))
}

func (r *SessionRepository) first(q *gorm.DB) (*entity.Session, bool, error) {
	var s entity.Session
	err := q.Preload("User").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (r *SessionRepository) DeleteByOwner(tx *gorm.DB, ownerKey string) error {
	return tx.Where("owner_key = ?", ownerKey).Delete(&entity.Session{}).Error
}

// DeleteByToken only removes the row if it still carries token, so a
// concurrent re-login on the same device is left alone.
func (r *SessionRepository) DeleteByToken(tx *gorm.DB, token string) error {
	return tx.Where("token = ?", token).Delete(&entity.Session{}).Error
}
