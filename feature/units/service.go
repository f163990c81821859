package units

import (
	"context"
	"errors"
	"fmt"

	"dispatch-core/core/broadcast"
	"dispatch-core/core/errs"
	callmodels "dispatch-core/feature/calls/models"
	"dispatch-core/feature/units/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Service handles unit status and combined-unit workflows.
type Service struct {
	db        *gorm.DB
	publisher broadcast.Publisher
	logger    *zap.Logger
	group     singleflight.Group
}

// NewService creates a new units service.
func NewService(db *gorm.DB, publisher broadcast.Publisher, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// MergeOfficers merges the given officers into a new combined unit. The entry
// officer seeds the combined unit's callsign pair, department, and paired
// unit template. The whole workflow runs in one transaction: a precondition
// failure rolls back before any mutation is visible.
func (s *Service) MergeOfficers(ctx context.Context, memberIDs []uint, entryID uint) (*models.CombinedUnit, error) {
	if len(memberIDs) < 2 {
		return nil, &errs.ValidationError{Field: "memberIds", Reason: "a combined unit needs at least two members"}
	}
	if !contains(memberIDs, entryID) {
		return nil, &errs.ValidationError{Field: "entryId", Reason: "entry unit must be one of the members"}
	}

	var unit models.CombinedUnit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var officers []models.Officer
		if err := tx.Where("id IN ?", memberIDs).Find(&officers).Error; err != nil {
			return fmt.Errorf("failed to load officers: %w", err)
		}

		byID := make(map[uint]models.Officer, len(officers))
		for _, o := range officers {
			byID[o.ID] = o
		}
		for _, id := range memberIDs {
			o, ok := byID[id]
			if !ok {
				return &errs.NotFoundError{Entity: "officer", ID: id}
			}
			if o.CombinedUnitID != nil {
				return &errs.ConflictError{Field: "memberIds", Reason: fmt.Sprintf("officer %d already belongs to a combined unit", id)}
			}
		}
		entry := byID[entryID]

		var dept models.Department
		if err := tx.First(&dept, entry.DepartmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "department", ID: entry.DepartmentID}
			}
			return fmt.Errorf("failed to load department: %w", err)
		}

		// Combined units carry an incremental number within the community
		var next int
		if err := tx.Model(&models.CombinedUnit{}).
			Select("COALESCE(MAX(number), 0) + 1").Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to allocate unit number: %w", err)
		}

		unit = models.CombinedUnit{
			Number:             next,
			Callsign:           entry.Callsign,
			Callsign2:          entry.Callsign2,
			DepartmentID:       entry.DepartmentID,
			StatusID:           dept.OnDutyStatusID,
			PairedUnitTemplate: entry.PairedUnitTemplate,
		}
		if err := tx.Create(&unit).Error; err != nil {
			return fmt.Errorf("failed to create combined unit: %w", err)
		}

		// Members stop carrying an independent status once merged
		if err := tx.Model(&models.Officer{}).Where("id IN ?", memberIDs).
			Updates(map[string]any{"status_id": nil, "combined_unit_id": unit.ID}).Error; err != nil {
			return fmt.Errorf("failed to attach members: %w", err)
		}

		for i := range officers {
			officers[i].StatusID = nil
			unitID := unit.ID
			officers[i].CombinedUnitID = &unitID
		}
		unit.Officers = officers
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishUnitRoster(ctx)
	return &unit, nil
}

// UnmergeOfficers dissolves a combined unit: every member gets the combined
// unit's last status back, call assignments referencing the unit are removed,
// and the unit row is deleted.
func (s *Service) UnmergeOfficers(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unit models.CombinedUnit
		if err := tx.First(&unit, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "combined unit", ID: id}
			}
			return fmt.Errorf("failed to load combined unit: %w", err)
		}

		// Members inherit the combined unit's last status
		if err := tx.Model(&models.Officer{}).Where("combined_unit_id = ?", id).
			Updates(map[string]any{"status_id": unit.StatusID, "combined_unit_id": nil}).Error; err != nil {
			return fmt.Errorf("failed to restore members: %w", err)
		}

		// Remove dangling call assignments before the unit row goes away
		if err := tx.Where("combined_unit_id = ?", id).
			Delete(&callmodels.AssignedUnit{}).Error; err != nil {
			return fmt.Errorf("failed to delete call assignments: %w", err)
		}

		if err := tx.Delete(&models.CombinedUnit{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete combined unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishUnitRoster(ctx)
	return nil
}

// SetOfficerStatus applies a status to a standalone officer. A status tagged
// SET_OFF_DUTY clears the status pointer instead of setting it.
func (s *Service) SetOfficerStatus(ctx context.Context, officerID, statusID uint) (*models.Officer, error) {
	var officer models.Officer
	var wentOffDuty bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&officer, officerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "officer", ID: officerID}
			}
			return fmt.Errorf("failed to load officer: %w", err)
		}
		if officer.CombinedUnitID != nil {
			return &errs.ConflictError{Field: "officerId", Reason: "officer belongs to a combined unit"}
		}

		var status models.StatusValue
		if err := tx.First(&status, statusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "status", ID: statusID}
			}
			return fmt.Errorf("failed to load status: %w", err)
		}

		newStatus := any(statusID)
		if status.ShouldDo == models.ShouldDoOffDuty {
			wentOffDuty = true
			newStatus = nil
		}
		if err := tx.Model(&models.Officer{}).Where("id = ?", officerID).
			Update("status_id", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if wentOffDuty {
		officer.StatusID = nil
		s.publisher.Publish(broadcast.EventUnitOffDuty, officer)
	} else {
		officer.StatusID = &statusID
	}

	s.publishUnitRoster(ctx)
	return &officer, nil
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
