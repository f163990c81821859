package units

import (
	"context"
	"testing"

	"dispatch-core/core/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMergeDeputies(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `ems_fd_deputies`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(5, "M-31", "Rescue", 6, 20, nil, nil).
			AddRow(6, "M-32", "Rescue", 6, 20, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM `departments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "on_duty_status_id"}).
			AddRow(6, "SAFD", 20))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(number\\), 0\\) \\+ 1 FROM `combined_ems_units`").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `combined_ems_units`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE `ems_fd_deputies`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectEmptyRoster(mock)

	unit, err := svc.MergeDeputies(context.Background(), []uint{5, 6}, 5)

	assert.NoError(t, err)
	assert.Equal(t, uint(2), unit.ID)
	assert.Equal(t, "M-31", unit.Callsign)
	assert.Len(t, unit.Deputies, 2)
	assert.Equal(t, []string{"deputy-status-changed"}, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnmergeDeputies_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `combined_ems_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()))
	mock.ExpectRollback()

	err := svc.UnmergeDeputies(context.Background(), 42)

	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.NoError(t, mock.ExpectationsWereMet())
}
