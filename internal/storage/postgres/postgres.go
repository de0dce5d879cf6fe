package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/models"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an existing handle; used by tests.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

const sessionColumns = `session_id, teacher_id, student_id, utc_date, utc_time, duration_minutes, status, timezone, zoom_link, notes, created_at, updated_at`

// CreateClassSession inserts a session and returns its generated id.
// utc_datetime is written alongside utc_date/utc_time so the stored
// instant always agrees with its denormalized components.
func (s *Storage) CreateClassSession(ctx context.Context, tx *sql.Tx, session *models.ClassSession) (string, error) {
	const op = "storage.postgres.CreateClassSession"

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := tx.ExecContext(ctx, `
		INSERT INTO class_sessions
			(session_id, teacher_id, student_id, utc_date, utc_time, utc_datetime, duration_minutes, status, timezone, zoom_link, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		id, session.TeacherID, session.StudentID,
		session.UTCDate, session.UTCTime, session.StartUTC(),
		session.DurationMinutes, string(session.Status), session.Timezone,
		session.ZoomLink, session.Notes, now,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetClassSession(ctx context.Context, id string) (*models.ClassSession, error) {
	const op = "storage.postgres.GetClassSession"

	var session models.ClassSession

	err := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM class_sessions
		WHERE session_id = $1`, id,
	).Scan(
		&session.ID, &session.TeacherID, &session.StudentID,
		&session.UTCDate, &session.UTCTime, &session.DurationMinutes,
		&session.Status, &session.Timezone, &session.ZoomLink,
		&session.Notes, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &session, nil
}

// ListTeacherSessions returns the teacher's slot-occupying sessions, the
// snapshot conflict checks run against.
func (s *Storage) ListTeacherSessions(ctx context.Context, teacherID string) ([]*models.ClassSession, error) {
	const op = "storage.postgres.ListTeacherSessions"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM class_sessions
		WHERE teacher_id = $1 AND status IN ('scheduled', 'in-progress')
		ORDER BY utc_datetime`, teacherID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	return scanSessions(rows, op)
}

// ListClassSessions filters by any combination of teacher, student,
// status and UTC time window.
func (s *Storage) ListClassSessions(ctx context.Context, teacherID, studentID, status *string, from, to *time.Time) ([]*models.ClassSession, error) {
	const op = "storage.postgres.ListClassSessions"

	query := `SELECT ` + sessionColumns + ` FROM class_sessions WHERE 1=1`
	args := []any{}
	argn := 1

	if teacherID != nil {
		query += fmt.Sprintf(" AND teacher_id = $%d", argn)
		args = append(args, *teacherID)
		argn++
	}
	if studentID != nil {
		query += fmt.Sprintf(" AND student_id = $%d", argn)
		args = append(args, *studentID)
		argn++
	}
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argn)
		args = append(args, *status)
		argn++
	}
	if from != nil {
		query += fmt.Sprintf(" AND utc_datetime >= $%d", argn)
		args = append(args, *from)
		argn++
	}
	if to != nil {
		query += fmt.Sprintf(" AND utc_datetime < $%d", argn)
		args = append(args, *to)
		argn++
	}

	query += " ORDER BY utc_datetime"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	return scanSessions(rows, op)
}

// UpdateClassSession rewrites the mutable fields of a session, keeping
// utc_datetime in step with the new utc_date/utc_time.
func (s *Storage) UpdateClassSession(ctx context.Context, tx *sql.Tx, session *models.ClassSession) error {
	const op = "storage.postgres.UpdateClassSession"

	res, err := tx.ExecContext(ctx, `
		UPDATE class_sessions
		SET teacher_id = $2,
			student_id = $3,
			utc_date = $4,
			utc_time = $5,
			utc_datetime = $6,
			duration_minutes = $7,
			timezone = $8,
			zoom_link = $9,
			notes = $10,
			updated_at = $11
		WHERE session_id = $1`,
		session.ID, session.TeacherID, session.StudentID,
		session.UTCDate, session.UTCTime, session.StartUTC(),
		session.DurationMinutes, session.Timezone,
		session.ZoomLink, session.Notes, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) UpdateClassSessionStatus(ctx context.Context, id string, status models.SessionStatus) error {
	const op = "storage.postgres.UpdateClassSessionStatus"

	res, err := s.db.ExecContext(ctx, `
		UPDATE class_sessions
		SET status = $2, updated_at = $3
		WHERE session_id = $1`,
		id, string(status), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteClassSession(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteClassSession"

	res, err := s.db.ExecContext(ctx, `DELETE FROM class_sessions WHERE session_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func scanSessions(rows *sql.Rows, op string) ([]*models.ClassSession, error) {
	var sessions []*models.ClassSession

	for rows.Next() {
		var session models.ClassSession
		err := rows.Scan(
			&session.ID, &session.TeacherID, &session.StudentID,
			&session.UTCDate, &session.UTCTime, &session.DurationMinutes,
			&session.Status, &session.Timezone, &session.ZoomLink,
			&session.Notes, &session.CreatedAt, &session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}
