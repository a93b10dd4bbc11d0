package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blackjack-platform/backend/internal/models"
)

// ErrNotFound is returned when no session record exists for a url.
var ErrNotFound = errors.New("session not found")

// Service maintains the durable session records backing the lobby. It is a
// side channel of join/leave bookkeeping, not part of the game state machine.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create registers a new open session under url.
func (s *Service) Create(url, creatorID, creatorName string) (*models.GameSession, error) {
	session := &models.GameSession{
		URL:         url,
		CreatorID:   creatorID,
		CreatorName: creatorName,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("create session record: %w", err)
	}
	return session, nil
}

// Get fetches one session record.
func (s *Service) Get(url string) (*models.GameSession, error) {
	var session models.GameSession
	err := s.db.Where("url = ?", url).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session record: %w", err)
	}
	return &session, nil
}

// SetOccupancy updates the advertised seat count for a session.
func (s *Service) SetOccupancy(url string, count int) error {
	err := s.db.Model(&models.GameSession{}).
		Where("url = ?", url).
		Update("num_players", count).Error
	if err != nil {
		return fmt.Errorf("update session occupancy: %w", err)
	}
	return nil
}

// Delete removes the session record once its table has emptied.
func (s *Service) Delete(url string) error {
	if err := s.db.Where("url = ?", url).Delete(&models.GameSession{}).Error; err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}

// ListOpen returns sessions with at least one seat taken and at least one
// seat free, newest first. Full and empty tables are not advertised.
func (s *Service) ListOpen(maxSeats int) ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := s.db.
		Where("num_players > 0 AND num_players < ?", maxSeats).
		Order("created_at DESC").
		Limit(50).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list open sessions: %w", err)
	}
	return sessions, nil
}
