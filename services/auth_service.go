package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/repository"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService runs register/login/logout and answers session queries for a
// device.
type AuthService struct {
	DB         *gorm.DB
	userRepo   *repository.UserRepository
	sessRepo   *repository.SessionRepository
	carts      *CartService
	locks      *DeviceLocks
	notify     Notifier
	jwtSecret  string
	ttl        time.Duration
	adminEmail string
	now        func() time.Time
	log        *zap.Logger
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	AdminEmail string
}

func NewAuthService(
	db *gorm.DB,
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	carts *CartService,
	locks *DeviceLocks,
	notify Notifier,
	cfg AuthConfig,
	log *zap.Logger,
) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		DB: db, userRepo: users, sessRepo: sessions, carts: carts,
		locks: locks, notify: notifierOrNop(notify),
		jwtSecret: cfg.JWTSecret, ttl: ttl,
		adminEmail: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		now:        time.Now, log: log,
	}
}

type RegisterIn struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Rut            string `json:"rut"`
	DefaultAddress string `json:"defaultAddress"`
}

// Register creates the account and signs it in on the device. The role is
// fixed here: only the configured admin email becomes ADMIN.
func (s *AuthService) Register(ctx context.Context, deviceKey string, in RegisterIn) (*entity.Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if email == "" || strings.TrimSpace(in.Password) == "" || name == "" || phone == "" {
		return nil, validation(CodeEmptyFields, ErrMsgEmptyFields)
	}
	rut := strings.TrimSpace(in.Rut)
	if rut != "" && !utils.IsRutValid(rut) {
		return nil, validation(CodeInvalidRut, ErrMsgInvalidRut)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("hash password", err)
	}
	role := entity.RoleCustomer
	if s.adminEmail != "" && email == s.adminEmail {
		role = entity.RoleAdmin
	}
	user := &entity.User{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		Name:           name,
		Phone:          phone,
		Rut:            rut,
		DefaultAddress: strings.TrimSpace(in.DefaultAddress),
		Role:           role,
		CreatedAt:      s.now(),
	}

	unlock := s.locks.Lock(deviceKey)
	defer unlock()

	var sess *entity.Session
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entity.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return internal("check email", err)
		}
		if n > 0 {
			return validation(CodeEmailExists, ErrMsgEmailExists)
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			// another device registered the same email after the count
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return validation(CodeEmailExists, ErrMsgEmailExists)
			}
			return internal("create user", err)
		}
		sess, err = s.startSession(tx, deviceKey, user)
		return err
	})
	if err != nil {
		if CodeOf(err) == CodeEmailExists {
			s.log.Info("register rejected: email exists", zap.String("device", deviceKey))
		}
		return nil, asServiceError("register", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("device", deviceKey))
	return sess, nil
}

// Login verifies the password and replaces any session the device held.
func (s *AuthService) Login(ctx context.Context, deviceKey, email, password string) (*entity.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, validation(CodeEmptyFields, ErrMsgEmptyFields)
	}

	user, ok, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, internal("find user", err)
	}
	if !ok {
		return nil, validation(CodeInvalidCredentials, ErrMsgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected: bad password", zap.String("user_id", user.ID))
		return nil, validation(CodeInvalidCredentials, ErrMsgInvalidCredentials)
	}

	unlock := s.locks.Lock(deviceKey)
	defer unlock()

	var sess *entity.Session
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sess, err = s.startSession(tx, deviceKey, user)
		return err
	})
	if err != nil {
		return nil, asServiceError("login", err)
	}
	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("device", deviceKey))
	return sess, nil
}

func (s *AuthService) startSession(tx *gorm.DB, deviceKey string, user *entity.User) (*entity.Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token, err := utils.GenerateToken(user.ID, string(user.Role), deviceKey, s.jwtSecret, now, exp)
	if err != nil {
		return nil, internal("sign token", err)
	}
	sess := &entity.Session{
		OwnerKey:  deviceKey,
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: exp,
		CreatedAt: now,
	}
	if err := s.sessRepo.Save(tx, sess); err != nil {
		return nil, internal("save session", err)
	}
	sess.User = *user
	return sess, nil
}

// Logout ends the device session and empties the device cart. Logging out
// without a session is not an error.
func (s *AuthService) Logout(ctx context.Context, deviceKey string) error {
	unlock := s.locks.Lock(deviceKey)
	err := s.sessRepo.DeleteByOwner(s.DB.WithContext(ctx), deviceKey)
	unlock()
	if err != nil {
		return internal("delete session", err)
	}
	if err := s.carts.Clear(ctx, deviceKey); err != nil {
		return err
	}
	s.log.Info("logged out", zap.String("device", deviceKey))
	s.notify.Publish(deviceKey, Event{Type: EventLoggedOut})
	return nil
}

// CurrentSession returns the device's live session. An expired session is
// removed and reported as absent.
func (s *AuthService) CurrentSession(ctx context.Context, deviceKey string) (*entity.Session, bool, error) {
	sess, ok, err := s.sessRepo.FindByOwner(ctx, deviceKey)
	if err != nil {
		return nil, false, internal("load session", err)
	}
	if !ok {
		return nil, false, nil
	}
	return s.checkLive(ctx, sess)
}

func (s *AuthService) IsLoggedIn(ctx context.Context, deviceKey string) (bool, error) {
	_, ok, err := s.CurrentSession(ctx, deviceKey)
	return ok, err
}

func (s *AuthService) CurrentUser(ctx context.Context, deviceKey string) (*entity.User, bool, error) {
	sess, ok, err := s.CurrentSession(ctx, deviceKey)
	if err != nil || !ok {
		return nil, false, err
	}
	return &sess.User, true, nil
}

// Authenticate resolves a bearer token to its live session. Tokens that do
// not verify, were replaced by a newer login, or have expired are absent.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.Session, bool, error) {
	if _, err := utils.ParseToken(token, s.jwtSecret, s.now); err != nil {
		return nil, false, nil
	}
	sess, ok, err := s.sessRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, false, internal("load session", err)
	}
	if !ok {
		return nil, false, nil
	}
	return s.checkLive(ctx, sess)
}

func (s *AuthService) checkLive(ctx context.Context, sess *entity.Session) (*entity.Session, bool, error) {
	if !sess.ExpiredAt(s.now()) {
		return sess, true, nil
	}
	if err := s.sessRepo.DeleteByToken(s.DB.WithContext(ctx), sess.Token); err != nil {
		return nil, false, internal("expire session", err)
	}
	s.log.Info("session expired", zap.String("device", sess.OwnerKey), zap.String("user_id", sess.UserID))
	return nil, false, nil
}
