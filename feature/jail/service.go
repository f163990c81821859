package jail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch-core/core/broadcast"
	"dispatch-core/core/errs"
	"dispatch-core/feature/jail/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service books arrests and releases them once their sentence is served.
type Service struct {
	db        *gorm.DB
	publisher broadcast.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new jail service.
func NewService(db *gorm.DB, publisher broadcast.Publisher, logger *zap.Logger) *Service {
	return &Service{db: db, publisher: publisher, logger: logger, now: time.Now}
}

// Book records a new arrest. StartedAt defaults to the current time.
func (s *Service) Book(ctx context.Context, arrest *models.Arrest) error {
	if arrest.CitizenName == "" {
		return &errs.ValidationError{Field: "citizenName", Reason: "must not be empty"}
	}
	if arrest.Minutes <= 0 {
		return &errs.ValidationError{Field: "minutes", Reason: "must be positive"}
	}
	if arrest.StartedAt.IsZero() {
		arrest.StartedAt = s.now()
	}

	if err := s.db.WithContext(ctx).Create(arrest).Error; err != nil {
		return fmt.Errorf("failed to book arrest: %w", err)
	}
	return nil
}

// InCustody returns all arrests that have not been released.
func (s *Service) InCustody(ctx context.Context) ([]models.Arrest, error) {
	var arrests []models.Arrest
	if err := s.db.WithContext(ctx).Where("released_at IS NULL").
		Find(&arrests).Error; err != nil {
		return nil, fmt.Errorf("failed to load arrests: %w", err)
	}
	return arrests, nil
}

// DueForRelease returns unreleased arrests whose sentence is served.
func (s *Service) DueForRelease(ctx context.Context) ([]models.Arrest, error) {
	arrests, err := s.InCustody(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	due := make([]models.Arrest, 0, len(arrests))
	for _, a := range arrests {
		if a.Due(now) {
			due = append(due, a)
		}
	}
	return due, nil
}

// Release stamps the arrest's release time and broadcasts it. Releasing an
// already released arrest is a no-op.
func (s *Service) Release(ctx context.Context, id uint) (*models.Arrest, error) {
	var arrest models.Arrest
	var alreadyReleased bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&arrest, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "arrest", ID: id}
			}
			return fmt.Errorf("failed to load arrest: %w", err)
		}
		if arrest.ReleasedAt != nil {
			alreadyReleased = true
			return nil
		}

		released := s.now()
		if err := tx.Model(&models.Arrest{}).Where("id = ?", id).
			Update("released_at", released).Error; err != nil {
			return fmt.Errorf("failed to release arrest: %w", err)
		}
		arrest.ReleasedAt = &released
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyReleased {
		s.publisher.Publish(broadcast.EventJailRelease, &arrest)
	}
	return &arrest, nil
}

// ReleaseDue releases every arrest whose sentence is served.
func (s *Service) ReleaseDue(ctx context.Context) (int, error) {
	due, err := s.DueForRelease(ctx)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, a := range due {
		if _, err := s.Release(ctx, a.ID); err != nil {
			s.logger.Warn("Arrest release failed", zap.Uint("id", a.ID), zap.Error(err))
			continue
		}
		released++
	}
	return released, nil
}
