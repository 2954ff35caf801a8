package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("users: email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; callers must not distinguish the two outward.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrRecordNotFound indicates the user record no longer exists.
	ErrRecordNotFound = errors.New("users: record not found")

	errMissingDatabase = errors.New("users: database connection required")
)

// ServiceConfig describes the dependencies required by the credential store.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service manages persisted user credentials.
type Service struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewService constructs the credential store.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, clock: clock}, nil
}

// Register hashes the password and persists a new user. A unique-constraint
// violation on email maps to ErrDuplicateEmail, so concurrent registrations
// for the same address resolve at the store: exactly one wins.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}

	user := User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("users: insert user: %w", err)
	}
	return user, nil
}

// Authenticate resolves the email and verifies the password against the
// stored hash. Absence and mismatch collapse into ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("users: select user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID fetches a user record for profile retrieval.
func (s *Service) FindByID(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrRecordNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("users: select user by id: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
