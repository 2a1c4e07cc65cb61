package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/models"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/owner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyURL    = errors.New("url is required")
	ErrURLNotFound = errors.New("url not found")
)

// URLService manages the per-user block list.
type URLService struct {
	db *gorm.DB
}

func NewURLService(db *gorm.DB) *URLService {
	return &URLService{db: db}
}

// List returns the user's URLs, newest first.
func (s *URLService) List(userID uuid.UUID) ([]models.BlockedURL, error) {
	urls := make([]models.BlockedURL, 0)
	err := s.db.Scopes(owner.ForUser(userID)).
		Order("created_at DESC").
		Find(&urls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	return urls, nil
}

// Add stores a trimmed URL for the user. The value is not validated beyond
// being non-empty; anything unparsable is later treated as a bare host.
func (s *URLService) Add(userID uuid.UUID, raw string) (*models.BlockedURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyURL
	}

	entry := models.BlockedURL{
		ID:     uuid.New(),
		UserID: userID,
		URL:    raw,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add url: %w", err)
	}
	return &entry, nil
}

func (s *URLService) Delete(userID, id uuid.UUID) error {
	result := s.db.Scopes(owner.ForUser(userID)).
		Where("id = ?", id).
		Delete(&models.BlockedURL{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete url: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrURLNotFound
	}
	return nil
}
