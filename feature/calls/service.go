package calls

import (
	"context"
	"errors"
	"fmt"

	"dispatch-core/core/broadcast"
	"dispatch-core/core/errs"
	"dispatch-core/core/reconcile"
	"dispatch-core/feature/calls/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles call lifecycle and unit assignment.
type Service struct {
	db        *gorm.DB
	publisher broadcast.Publisher
	logger    *zap.Logger
}

// NewService creates a new calls service.
func NewService(db *gorm.DB, publisher broadcast.Publisher, logger *zap.Logger) *Service {
	return &Service{db: db, publisher: publisher, logger: logger}
}

// Create opens a new call and broadcasts it.
func (s *Service) Create(ctx context.Context, call *models.Call) error {
	switch call.Type {
	case models.TypeCall, models.TypeTow, models.TypeTaxi:
	default:
		return &errs.ValidationError{Field: "type", Reason: "must be call, tow, or taxi"}
	}
	if call.Title == "" {
		return &errs.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if err := s.db.WithContext(ctx).Create(call).Error; err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}

	s.publisher.Publish(broadcast.EventCallUpdated, call)
	return nil
}

// Open returns all calls that have not ended yet.
func (s *Service) Open(ctx context.Context) ([]models.Call, error) {
	var calls []models.Call
	if err := s.db.WithContext(ctx).Where("ended = ?", false).
		Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("failed to load calls: %w", err)
	}
	return calls, nil
}

// AssignOfficers reconciles a call's assigned officers to the given set.
// The current assignment rows and the desired officer ids go through the
// reconciliation engine; only the planned connect/delete operations touch the
// database, so officers staying on the call keep their rows.
func (s *Service) AssignOfficers(ctx context.Context, callID uint, officerIDs []uint) (*models.Call, error) {
	var call models.Call
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&call, callID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "call", ID: callID}
			}
			return fmt.Errorf("failed to load call: %w", err)
		}
		if call.Ended {
			return &errs.ConflictError{Field: "callId", Reason: "call has ended"}
		}

		var current []models.AssignedUnit
		if err := tx.Where("call_id = ? AND officer_id IS NOT NULL", callID).
			Find(&current).Error; err != nil {
			return fmt.Errorf("failed to load assignments: %w", err)
		}
		currentIDs := make([]uint, 0, len(current))
		for _, row := range current {
			currentIDs = append(currentIDs, *row.OfficerID)
		}

		// Assignment rows are join rows: departing members are hard-deleted
		ops := reconcile.Plan(currentIDs, officerIDs, reconcile.Identity[uint],
			reconcile.Options{RemoveMode: reconcile.RemoveDelete})

		for _, op := range ops {
			switch op.Kind {
			case reconcile.OpConnect:
				officerID := op.ID
				row := models.AssignedUnit{CallID: callID, OfficerID: &officerID}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to assign officer %d: %w", op.ID, err)
				}
			case reconcile.OpDelete, reconcile.OpDisconnect:
				if err := tx.Where("call_id = ? AND officer_id = ?", callID, op.ID).
					Delete(&models.AssignedUnit{}).Error; err != nil {
					return fmt.Errorf("failed to unassign officer %d: %w", op.ID, err)
				}
			}
		}

		if err := tx.Where("call_id = ?", callID).
			Find(&call.AssignedUnits).Error; err != nil {
			return fmt.Errorf("failed to reload assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(broadcast.EventCallUpdated, &call)
	return &call, nil
}

// End closes a call and removes its assignment rows. Ending an already ended
// call is a no-op.
func (s *Service) End(ctx context.Context, callID uint) (*models.Call, error) {
	var call models.Call
	var alreadyEnded bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&call, callID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "call", ID: callID}
			}
			return fmt.Errorf("failed to load call: %w", err)
		}
		if call.Ended {
			alreadyEnded = true
			return nil
		}

		if err := tx.Model(&models.Call{}).Where("id = ?", callID).
			Update("ended", true).Error; err != nil {
			return fmt.Errorf("failed to end call: %w", err)
		}
		if err := tx.Where("call_id = ?", callID).
			Delete(&models.AssignedUnit{}).Error; err != nil {
			return fmt.Errorf("failed to delete assignments: %w", err)
		}
		call.Ended = true
		call.AssignedUnits = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyEnded {
		s.publisher.Publish(broadcast.EventCallUpdated, &call)
	}
	return &call, nil
}
