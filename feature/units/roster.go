package units

import (
	"context"
	"fmt"

	"dispatch-core/core/broadcast"
	"dispatch-core/feature/units/models"

	"go.uber.org/zap"
)

// RosterSnapshot is the complete active-unit roster. Broadcasts carry the
// whole snapshot so subscribers replace their lists instead of reconciling
// deltas.
type RosterSnapshot struct {
	Officers         []models.Officer         `json:"officers"`
	Deputies         []models.EmsFdDeputy     `json:"deputies"`
	CombinedUnits    []models.CombinedUnit    `json:"combinedUnits"`
	CombinedEmsUnits []models.CombinedEmsUnit `json:"combinedEmsUnits"`
}

// LoadSnapshot re-reads the full active roster from the database. Concurrent
// loads collapse into one query pass via singleflight; the result is not
// cached beyond the in-flight call, so every broadcast reflects current rows.
func (s *Service) LoadSnapshot(ctx context.Context) (*RosterSnapshot, error) {
	v, err, _ := s.group.Do("roster", func() (any, error) {
		db := s.db.WithContext(ctx)
		var snap RosterSnapshot

		if err := db.Where("status_id IS NOT NULL").Find(&snap.Officers).Error; err != nil {
			return nil, fmt.Errorf("failed to load officers: %w", err)
		}
		if err := db.Where("status_id IS NOT NULL").Find(&snap.Deputies).Error; err != nil {
			return nil, fmt.Errorf("failed to load deputies: %w", err)
		}
		if err := db.Preload("Officers").Find(&snap.CombinedUnits).Error; err != nil {
			return nil, fmt.Errorf("failed to load combined units: %w", err)
		}
		if err := db.Preload("Deputies").Find(&snap.CombinedEmsUnits).Error; err != nil {
			return nil, fmt.Errorf("failed to load combined ems units: %w", err)
		}

		return &snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RosterSnapshot), nil
}

// publishUnitRoster re-queries the roster and broadcasts it. Broadcast
// failure never fails the workflow that triggered it.
func (s *Service) publishUnitRoster(ctx context.Context) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Warn("Failed to load roster for broadcast", zap.Error(err))
		return
	}
	s.publisher.Publish(broadcast.EventUnitStatusChanged, snap)
}

func (s *Service) publishDeputyRoster(ctx context.Context) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		s.logger.Warn("Failed to load roster for broadcast", zap.Error(err))
		return
	}
	s.publisher.Publish(broadcast.EventDeputyStatusChanged, snap)
}
