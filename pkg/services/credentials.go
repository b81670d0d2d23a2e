package services

import (
	"context"
	"errors"
	"strings"

	"ChatBuddy/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialStore owns user identities and password verification.
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Register stores a new user with a bcrypt digest of password. Seeding is not done here.
func (s *CredentialStore) Register(ctx context.Context, handle, password string) (*models.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return nil, invalidf("username and password are required")
	}
	if len(password) > models.MaxPasswordBytes {
		return nil, invalidf("password must be at most %d bytes", models.MaxPasswordBytes)
	}

	user := models.User{Username: handle}
	if err := user.SetPassword(password); err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, invalidf("password must be at most %d bytes", models.MaxPasswordBytes)
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", handle).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateHandle
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateHandle
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate returns the user only when password verifies. Unknown handles and
// wrong passwords both yield ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, handle, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(handle)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *CredentialStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
