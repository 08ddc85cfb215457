package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/salonspa/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the minimum length of a password.
const MinPasswordLength = 8

var ErrInvalidCredentials = errors.New("email o contraseña incorrectos")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) ([]byte, error) {
	if len(password) < MinPasswordLength {
		return nil, models.NewValidationError("La contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}

	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// Authenticate returns the user for email if password matches.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (models.User, error) {
	var user models.User
	err := db.WithContext(ctx).
		Where(&models.User{Email: strings.ToLower(strings.TrimSpace(email))}).
		First(&user).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, ErrInvalidCredentials
	} else if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// EnsureAdmin creates an admin with email and password if no user with the
// email exists. It reports if the admin was created.
func EnsureAdmin(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Count(&count).Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	admin := models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}

	return true, nil
}
