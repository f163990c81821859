package units

import (
	"context"
	"errors"
	"fmt"

	"dispatch-core/core/errs"
	callmodels "dispatch-core/feature/calls/models"
	"dispatch-core/feature/units/models"

	"gorm.io/gorm"
)

// MergeDeputies merges EMS/FD deputies into a new combined EMS unit. Mirrors
// MergeOfficers over the EMS tables.
func (s *Service) MergeDeputies(ctx context.Context, memberIDs []uint, entryID uint) (*models.CombinedEmsUnit, error) {
	if len(memberIDs) < 2 {
		return nil, &errs.ValidationError{Field: "memberIds", Reason: "a combined unit needs at least two members"}
	}
	if !contains(memberIDs, entryID) {
		return nil, &errs.ValidationError{Field: "entryId", Reason: "entry unit must be one of the members"}
	}

	var unit models.CombinedEmsUnit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deputies []models.EmsFdDeputy
		if err := tx.Where("id IN ?", memberIDs).Find(&deputies).Error; err != nil {
			return fmt.Errorf("failed to load deputies: %w", err)
		}

		byID := make(map[uint]models.EmsFdDeputy, len(deputies))
		for _, d := range deputies {
			byID[d.ID] = d
		}
		for _, id := range memberIDs {
			d, ok := byID[id]
			if !ok {
				return &errs.NotFoundError{Entity: "deputy", ID: id}
			}
			if d.CombinedUnitID != nil {
				return &errs.ConflictError{Field: "memberIds", Reason: fmt.Sprintf("deputy %d already belongs to a combined unit", id)}
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

		var next int
		if err := tx.Model(&models.CombinedEmsUnit{}).
			Select("COALESCE(MAX(number), 0) + 1").Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to allocate unit number: %w", err)
		}

		unit = models.CombinedEmsUnit{
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

		if err := tx.Model(&models.EmsFdDeputy{}).Where("id IN ?", memberIDs).
			Updates(map[string]any{"status_id": nil, "combined_unit_id": unit.ID}).Error; err != nil {
			return fmt.Errorf("failed to attach members: %w", err)
		}

		for i := range deputies {
			deputies[i].StatusID = nil
			unitID := unit.ID
			deputies[i].CombinedUnitID = &unitID
		}
		unit.Deputies = deputies
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDeputyRoster(ctx)
	return &unit, nil
}

// UnmergeDeputies dissolves a combined EMS unit. Mirrors UnmergeOfficers.
func (s *Service) UnmergeDeputies(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unit models.CombinedEmsUnit
		if err := tx.First(&unit, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &errs.NotFoundError{Entity: "combined unit", ID: id}
			}
			return fmt.Errorf("failed to load combined unit: %w", err)
		}

		if err := tx.Model(&models.EmsFdDeputy{}).Where("combined_unit_id = ?", id).
			Updates(map[string]any{"status_id": unit.StatusID, "combined_unit_id": nil}).Error; err != nil {
			return fmt.Errorf("failed to restore members: %w", err)
		}

		if err := tx.Where("combined_ems_unit_id = ?", id).
			Delete(&callmodels.AssignedUnit{}).Error; err != nil {
			return fmt.Errorf("failed to delete call assignments: %w", err)
		}

		if err := tx.Delete(&models.CombinedEmsUnit{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete combined unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishDeputyRoster(ctx)
	return nil
}
