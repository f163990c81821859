package jail

import (
	"context"
	"testing"
	"time"

	"dispatch-core/core/errs"
	"dispatch-core/feature/jail/models"

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

func arrestColumns() []string {
	return []string{"id", "citizen_name", "officer_id", "charges", "minutes", "started_at", "released_at"}
}

func TestReleaseAt(t *testing.T) {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := models.Arrest{Minutes: 45, StartedAt: started}

	assert.Equal(t, started.Add(45*time.Minute), a.ReleaseAt())
}

func TestDue(t *testing.T) {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := models.Arrest{Minutes: 30, StartedAt: started}

	assert.False(t, a.Due(started.Add(29*time.Minute)))
	assert.True(t, a.Due(started.Add(30*time.Minute)), "release moment itself counts as due")
	assert.True(t, a.Due(started.Add(31*time.Minute)))

	released := started.Add(30 * time.Minute)
	a.ReleasedAt = &released
	assert.False(t, a.Due(started.Add(31*time.Minute)), "released arrests are never due")
}

func TestBook_Validation(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	err := svc.Book(context.Background(), &models.Arrest{Minutes: 10})
	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "citizenName", ve.Field)

	err = svc.Book(context.Background(), &models.Arrest{CitizenName: "John Doe", Minutes: 0})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "minutes", ve.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_DefaultsStartedAt(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())
	booked := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return booked }

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `arrests`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	arrest := models.Arrest{CitizenName: "John Doe", Minutes: 15}
	err := svc.Book(context.Background(), &arrest)

	assert.NoError(t, err)
	assert.Equal(t, booked, arrest.StartedAt)
	assert.Equal(t, uint(3), arrest.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDueForRelease_FiltersServedSentences(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, &recordingPublisher{}, zap.NewNop())

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started.Add(20 * time.Minute) }

	mock.ExpectQuery("SELECT \\* FROM `arrests`").
		WillReturnRows(sqlmock.NewRows(arrestColumns()).
			AddRow(1, "John Doe", nil, "speeding", 15, started, nil).
			AddRow(2, "Jane Roe", nil, "evasion", 30, started, nil))

	due, err := svc.DueForRelease(context.Background())

	assert.NoError(t, err)
	assert.Len(t, due, 1)
	assert.Equal(t, uint(1), due[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_Broadcasts(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started.Add(time.Hour) }

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `arrests`").
		WillReturnRows(sqlmock.NewRows(arrestColumns()).
			AddRow(1, "John Doe", nil, "speeding", 15, started, nil))
	mock.ExpectExec("UPDATE `arrests`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	arrest, err := svc.Release(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, arrest.ReleasedAt)
	assert.Equal(t, started.Add(time.Hour), *arrest.ReleasedAt)
	assert.Equal(t, []string{"jail-release"}, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `arrests`").
		WillReturnRows(sqlmock.NewRows(arrestColumns()))
	mock.ExpectRollback()

	_, err := svc.Release(context.Background(), 42)

	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "arrest", nf.Entity)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_AlreadyReleased(t *testing.T) {
	db, mock := setupMockDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, pub, zap.NewNop())

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	released := started.Add(15 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `arrests`").
		WillReturnRows(sqlmock.NewRows(arrestColumns()).
			AddRow(1, "John Doe", nil, "speeding", 15, started, released))
	mock.ExpectCommit()

	arrest, err := svc.Release(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, arrest.ReleasedAt)
	assert.Empty(t, pub.events, "re-releasing must not broadcast")
	assert.NoError(t, mock.ExpectationsWereMet())
}
