package units

import (
	"context"
	"testing"

	"dispatch-core/core/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

type recordingPublisher struct {
	events   []string
	payloads []any
}

func (p *recordingPublisher) Publish(event string, payload any) {
	p.events = append(p.events, event)
	p.payloads = append(p.payloads, payload)
}

func officerColumns() []string {
	return []string{"id", "callsign", "callsign2", "department_id", "status_id", "combined_unit_id", "paired_unit_template"}
}

func combinedUnitColumns() []string {
	return []string{"id", "number", "callsign", "callsign2", "department_id", "status_id", "paired_unit_template"}
}

// expectEmptyRoster queues the four snapshot queries that follow every
// successful workflow. Empty combined-unit result sets keep GORM from issuing
// the preload queries.
func expectEmptyRoster(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()))
	mock.ExpectQuery("SELECT \\* FROM `ems_fd_deputies`").
		WillReturnRows(sqlmock.NewRows(officerColumns()))
	mock.ExpectQuery("SELECT \\* FROM `combined_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()))
	mock.ExpectQuery("SELECT \\* FROM `combined_ems_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()))
}

func TestMergeOfficers(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, 10, nil, nil).
			AddRow(2, "1A-02", "Baker", 3, 10, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM `departments`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "on_duty_status_id"}).
			AddRow(3, "LSPD", 10))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(number\\), 0\\) \\+ 1 FROM `combined_units`").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(4))
	mock.ExpectExec("INSERT INTO `combined_units`").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("UPDATE `officers`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectEmptyRoster(mock)

	unit, err := svc.MergeOfficers(context.Background(), []uint{1, 2}, 1)

	assert.NoError(t, err)
	assert.Equal(t, uint(9), unit.ID)
	assert.Equal(t, 4, unit.Number)
	assert.Equal(t, "1A-01", unit.Callsign, "entry officer seeds the callsign")
	assert.Len(t, unit.Officers, 2)
	for _, o := range unit.Officers {
		assert.Nil(t, o.StatusID)
		assert.Equal(t, uint(9), *o.CombinedUnitID)
	}
	assert.Equal(t, []string{"unit-status-changed"}, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeOfficers_TooFewMembers(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	_, err := svc.MergeOfficers(context.Background(), []uint{1}, 1)

	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "memberIds", ve.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeOfficers_EntryNotMember(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	_, err := svc.MergeOfficers(context.Background(), []uint{1, 2}, 3)

	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "entryId", ve.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeOfficers_MissingOfficer(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, 10, nil, nil))
	mock.ExpectRollback()

	_, err := svc.MergeOfficers(context.Background(), []uint{1, 2}, 1)

	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, uint(2), nf.ID)
	assert.Empty(t, pub.events, "failed merges must not broadcast")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeOfficers_AlreadyMerged(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, nil, 7, nil).
			AddRow(2, "1A-02", "Baker", 3, 10, nil, nil))
	mock.ExpectRollback()

	_, err := svc.MergeOfficers(context.Background(), []uint{1, 2}, 1)

	var ce *errs.ConflictError
	assert.ErrorAs(t, err, &ce)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnmergeOfficers(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `combined_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()).
			AddRow(9, 4, "1A-01", "Adam", 3, 12, nil))
	mock.ExpectExec("UPDATE `officers`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `assigned_units`").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `combined_units`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectEmptyRoster(mock)

	err := svc.UnmergeOfficers(context.Background(), 9)

	assert.NoError(t, err)
	assert.Equal(t, []string{"unit-status-changed"}, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnmergeOfficers_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `combined_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()))
	mock.ExpectRollback()

	err := svc.UnmergeOfficers(context.Background(), 99)

	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOfficerStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, 10, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM `status_values`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "should_do"}).
			AddRow(12, "10-6", "SET_STATUS"))
	mock.ExpectExec("UPDATE `officers`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectEmptyRoster(mock)

	officer, err := svc.SetOfficerStatus(context.Background(), 1, 12)

	assert.NoError(t, err)
	assert.Equal(t, uint(12), *officer.StatusID)
	assert.Equal(t, []string{"unit-status-changed"}, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOfficerStatus_OffDuty(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, 10, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM `status_values`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "should_do"}).
			AddRow(2, "10-42", "SET_OFF_DUTY"))
	mock.ExpectExec("UPDATE `officers`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectEmptyRoster(mock)

	officer, err := svc.SetOfficerStatus(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Nil(t, officer.StatusID, "off-duty statuses clear the status pointer")
	assert.Equal(t, []string{"unit-off-duty", "unit-status-changed"}, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOfficerStatus_MergedOfficer(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, nil, 9, nil))
	mock.ExpectRollback()

	_, err := svc.SetOfficerStatus(context.Background(), 1, 12)

	var ce *errs.ConflictError
	assert.ErrorAs(t, err, &ce)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_PreloadsMembers(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(3, "2L-20", "Lincoln", 3, 10, nil, nil))
	mock.ExpectQuery("SELECT \\* FROM `ems_fd_deputies`").
		WillReturnRows(sqlmock.NewRows(officerColumns()))
	mock.ExpectQuery("SELECT \\* FROM `combined_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()).
			AddRow(9, 4, "1A-01", "Adam", 3, 12, nil))
	mock.ExpectQuery("SELECT \\* FROM `officers`").
		WillReturnRows(sqlmock.NewRows(officerColumns()).
			AddRow(1, "1A-01", "Adam", 3, nil, 9, nil).
			AddRow(2, "1A-02", "Baker", 3, nil, 9, nil))
	mock.ExpectQuery("SELECT \\* FROM `combined_ems_units`").
		WillReturnRows(sqlmock.NewRows(combinedUnitColumns()))

	snap, err := svc.LoadSnapshot(context.Background())

	assert.NoError(t, err)
	assert.Len(t, snap.Officers, 1)
	assert.Len(t, snap.CombinedUnits, 1)
	assert.Len(t, snap.CombinedUnits[0].Officers, 2)
	assert.Empty(t, snap.Deputies)
	assert.Empty(t, snap.CombinedEmsUnits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
