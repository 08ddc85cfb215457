// Package suggestion keeps the newest feedback messages left by users.
package suggestion

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/salonspa/backend/internal/models"
	"gorm.io/gorm"
)

// Capacity is the number of suggestions kept. Older ones are dropped.
const Capacity = 20

// MaxLength is the maximum length of a message in characters.
const MaxLength = 500

// Store is an append-only log of the newest Capacity suggestions.
type Store interface {
	// Add appends a suggestion and drops the oldest beyond Capacity.
	Add(ctx context.Context, message string) (models.Suggestion, error)

	// List returns the suggestions, newest first.
	List(ctx context.Context) ([]models.Suggestion, error)
}

func normalize(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", models.NewValidationError("El mensaje es obligatorio")
	}

	if utf8.RuneCountInString(message) > MaxLength {
		return "", models.NewValidationError("El mensaje no puede superar %d caracteres", MaxLength)
	}

	return message, nil
}

// DBStore keeps suggestions in the database.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Add(ctx context.Context, message string) (models.Suggestion, error) {
	message, err := normalize(message)
	if err != nil {
		return models.Suggestion{}, err
	}

	suggestion := models.Suggestion{Message: message, CreatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&suggestion).Error; err != nil {
			return err
		}

		newest := tx.Model(&models.Suggestion{}).Select("id").Order("id DESC").Limit(Capacity)
		return tx.Where("id NOT IN (?)", newest).Delete(&models.Suggestion{}).Error
	})
	if err != nil {
		return models.Suggestion{}, err
	}

	return suggestion, nil
}

func (s *DBStore) List(ctx context.Context) ([]models.Suggestion, error) {
	suggestions := make([]models.Suggestion, 0)
	err := s.db.WithContext(ctx).Order("id DESC").Limit(Capacity).Find(&suggestions).Error
	if err != nil {
		return nil, err
	}

	return suggestions, nil
}
