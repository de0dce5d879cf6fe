package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/models"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewWithDB(db), mock
}

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"session_id", "teacher_id", "student_id", "utc_date", "utc_time",
		"duration_minutes", "status", "timezone", "zoom_link", "notes",
		"created_at", "updated_at",
	})
}

func TestCreateClassSession_WritesInstantWithComponents(t *testing.T) {
	storage, mock := newMockStorage(t)

	session := &models.ClassSession{
		TeacherID:       "t1",
		StudentID:       "st1",
		UTCDate:         "2025-09-14",
		UTCTime:         "15:00",
		DurationMinutes: 60,
		Status:          models.SessionScheduled,
		Timezone:        "Africa/Cairo",
	}

	wantInstant := time.Date(2025, 9, 14, 15, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO class_sessions").
		WithArgs(
			sqlmock.AnyArg(), "t1", "st1",
			"2025-09-14", "15:00", wantInstant,
			60, "scheduled", "Africa/Cairo",
			"", "", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := storage.BeginTx(context.Background())
	require.NoError(t, err)

	id, err := storage.CreateClassSession(context.Background(), tx, session)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassSession(t *testing.T) {
	storage, mock := newMockStorage(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM class_sessions").
		WithArgs("sess-1").
		WillReturnRows(sessionRows().AddRow(
			"sess-1", "t1", "st1", "2025-09-14", "15:00",
			60, "scheduled", "Africa/Cairo", "", "",
			now, now,
		))

	session, err := storage.GetClassSession(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, "t1", session.TeacherID)
	assert.Equal(t, "2025-09-14", session.UTCDate)
	assert.Equal(t, "15:00", session.UTCTime)
	assert.Equal(t, models.SessionScheduled, session.Status)
	assert.Equal(t, time.Date(2025, 9, 14, 15, 0, 0, 0, time.UTC), session.StartUTC())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassSession_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT (.+) FROM class_sessions").
		WithArgs("missing").
		WillReturnRows(sessionRows())

	_, err := storage.GetClassSession(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestListTeacherSessions_FiltersOccupyingStatuses(t *testing.T) {
	storage, mock := newMockStorage(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM class_sessions WHERE teacher_id = (.+) AND status IN").
		WithArgs("t1").
		WillReturnRows(sessionRows().
			AddRow("sess-1", "t1", "st1", "2025-09-14", "15:00", 60, "scheduled", "Africa/Cairo", "", "", now, now).
			AddRow("sess-2", "t1", "st2", "2025-09-14", "16:00", 30, "in-progress", "Asia/Riyadh", "", "", now, now))

	sessions, err := storage.ListTeacherSessions(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-1", sessions[0].ID)
	assert.Equal(t, models.SessionInProgress, sessions[1].Status)
}

func TestListClassSessions_BuildsFilters(t *testing.T) {
	storage, mock := newMockStorage(t)

	teacherID := "t1"
	status := "scheduled"
	from := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM class_sessions WHERE 1=1 AND teacher_id = (.+) AND status = (.+) AND utc_datetime >=").
		WithArgs(teacherID, status, from).
		WillReturnRows(sessionRows().
			AddRow("sess-1", "t1", "st1", "2025-09-14", "15:00", 60, "scheduled", "Africa/Cairo", "", "", now, now))

	sessions, err := storage.ListClassSessions(context.Background(), &teacherID, nil, &status, &from, nil)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sess-1", sessions[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClassSessionStatus_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("UPDATE class_sessions").
		WithArgs("missing", "cancelled", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.UpdateClassSessionStatus(context.Background(), "missing", models.SessionCancelled)
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestDeleteClassSession(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec("DELETE FROM class_sessions").
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, storage.DeleteClassSession(context.Background(), "sess-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
