package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/lock"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/models"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/schedule"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/timezone"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
)

const lockTTL = 10 * time.Second

type Service struct {
	store     Store
	locker    lock.Locker
	defaultTZ string
	now       func() time.Time
}

func NewService(store Store, locker lock.Locker, defaultTZ string) *Service {
	return &Service{
		store:     store,
		locker:    locker,
		defaultTZ: defaultTZ,
		now:       time.Now,
	}
}

type Store interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)

	CreateClassSession(ctx context.Context, tx *sql.Tx, session *models.ClassSession) (string, error)
	GetClassSession(ctx context.Context, id string) (*models.ClassSession, error)
	ListTeacherSessions(ctx context.Context, teacherID string) ([]*models.ClassSession, error)
	ListClassSessions(ctx context.Context, teacherID, studentID, status *string, from, to *time.Time) ([]*models.ClassSession, error)
	UpdateClassSession(ctx context.Context, tx *sql.Tx, session *models.ClassSession) error
	UpdateClassSessionStatus(ctx context.Context, id string, status models.SessionStatus) error
	DeleteClassSession(ctx context.Context, id string) error
}

// ConflictError names the sessions a proposal overlapped so callers can
// report them. errors.Is matches response.ErrSchedulingConflict.
type ConflictError struct {
	SessionIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with existing class(es): %s", strings.Join(e.SessionIDs, ", "))
}

func (e *ConflictError) Unwrap() error {
	return response.ErrSchedulingConflict
}

type ListFilters struct {
	TeacherID *string
	StudentID *string
	Status    *string
	From      *time.Time
	To        *time.Time
}

// ScheduleClass converts the scheduler's local wall-clock input to UTC,
// checks the teacher's calendar for overlap under a per-teacher lock, and
// persists the class. The lock only narrows the check-then-write window;
// writers on a different Redis can still race.
func (s *Service) ScheduleClass(ctx context.Context, req *api.ScheduleClassRequest) (*api.ClassResponse, error) {
	const op = "service.ScheduleClass"

	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%s: %w", op, schedule.ErrInvalidDuration)
	}

	instant, err := timezone.ToUTC(req.Date, req.Time, req.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session := &models.ClassSession{
		TeacherID:       req.TeacherID,
		StudentID:       req.StudentID,
		UTCDate:         instant.UTCDate,
		UTCTime:         instant.UTCTime,
		DurationMinutes: req.DurationMinutes,
		Status:          models.SessionScheduled,
		Timezone:        req.Timezone,
		ZoomLink:        req.ZoomLink,
		Notes:           req.Notes,
	}

	id, err := s.writeChecked(ctx, session, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetClass(ctx, id, req.Timezone)
}

// UpdateClass edits a class in place. The conflict check excludes the
// session's own stored state so a class can be nudged within its old slot.
func (s *Service) UpdateClass(ctx context.Context, id string, req *api.UpdateClassRequest) (*api.ClassResponse, error) {
	const op = "service.UpdateClass"

	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%s: %w", op, schedule.ErrInvalidDuration)
	}

	current, err := s.store.GetClassSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !current.Status.OccupiesSlot() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidStatusTransition)
	}

	instant, err := timezone.ToUTC(req.Date, req.Time, req.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current.TeacherID = req.TeacherID
	current.StudentID = req.StudentID
	current.UTCDate = instant.UTCDate
	current.UTCTime = instant.UTCTime
	current.DurationMinutes = req.DurationMinutes
	current.Timezone = req.Timezone
	current.ZoomLink = req.ZoomLink
	current.Notes = req.Notes

	if _, err := s.writeChecked(ctx, current, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetClass(ctx, id, req.Timezone)
}

// RescheduleClass moves a class to a new local date/time, keeping
// participants and duration.
func (s *Service) RescheduleClass(ctx context.Context, req *api.RescheduleClassRequest) (*api.ClassResponse, error) {
	const op = "service.RescheduleClass"

	current, err := s.store.GetClassSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !current.Status.OccupiesSlot() {
		return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidStatusTransition)
	}

	instant, err := timezone.ToUTC(req.Date, req.Time, req.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current.UTCDate = instant.UTCDate
	current.UTCTime = instant.UTCTime
	current.Timezone = req.Timezone

	if _, err := s.writeChecked(ctx, current, req.SessionID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetClass(ctx, req.SessionID, req.Timezone)
}

// writeChecked runs the conflict check and the insert/update as one step
// under the teacher's lock. excludeID is empty on create.
func (s *Service) writeChecked(ctx context.Context, session *models.ClassSession, excludeID string) (string, error) {
	lockKey := fmt.Sprintf("teacher:%s", session.TeacherID)

	locked, err := s.locker.Lock(ctx, lockKey, lockTTL)
	if err != nil {
		return "", fmt.Errorf("lock error: %w", err)
	}
	if !locked {
		return "", response.ErrLocked
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	existing, err := s.store.ListTeacherSessions(ctx, session.TeacherID)
	if err != nil {
		return "", err
	}

	result, err := schedule.CheckConflict(schedule.Proposal{
		TeacherID:        session.TeacherID,
		StartUTC:         session.StartUTC(),
		DurationMinutes:  session.DurationMinutes,
		ExcludeSessionID: excludeID,
	}, existing)
	if err != nil {
		return "", err
	}
	if result.HasConflict {
		return "", &ConflictError{SessionIDs: result.ConflictingIDs}
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	id := excludeID
	if excludeID == "" {
		id, err = s.store.CreateClassSession(ctx, tx, session)
	} else {
		err = s.store.UpdateClassSession(ctx, tx, session)
	}
	if err != nil {
		_ = tx.Rollback()
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

func (s *Service) GetClass(ctx context.Context, id, viewerTZ string) (*api.ClassResponse, error) {
	const op = "service.GetClass"

	session, err := s.store.GetClassSession(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.toClassResponse(session, viewerTZ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

func (s *Service) ListClasses(ctx context.Context, filters *ListFilters, viewerTZ string) ([]*api.ClassResponse, error) {
	const op = "service.ListClasses"

	sessions, err := s.store.ListClassSessions(ctx, filters.TeacherID, filters.StudentID, filters.Status, filters.From, filters.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.ClassResponse, 0, len(sessions))
	for _, session := range sessions {
		resp, err := s.toClassResponse(session, viewerTZ)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, resp)
	}

	return result, nil
}

func (s *Service) StartClass(ctx context.Context, id string) (*api.ClassResponse, error) {
	const op = "service.StartClass"

	if err := s.transition(ctx, id, models.SessionInProgress); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetClass(ctx, id, "")
}

func (s *Service) CompleteClass(ctx context.Context, id string) (*api.ClassResponse, error) {
	const op = "service.CompleteClass"

	if err := s.transition(ctx, id, models.SessionCompleted); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetClass(ctx, id, "")
}

// CancelClass releases the session's slot: cancelled classes never block
// new bookings.
func (s *Service) CancelClass(ctx context.Context, id string) (*api.ClassResponse, error) {
	const op = "service.CancelClass"

	if err := s.transition(ctx, id, models.SessionCancelled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetClass(ctx, id, "")
}

func (s *Service) transition(ctx context.Context, id string, to models.SessionStatus) error {
	session, err := s.store.GetClassSession(ctx, id)
	if err != nil {
		return err
	}

	if !models.ValidTransition(session.Status, to) {
		return fmt.Errorf("%s -> %s: %w", session.Status, to, response.ErrInvalidStatusTransition)
	}

	return s.store.UpdateClassSessionStatus(ctx, id, to)
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	const op = "service.DeleteClass"

	err := s.store.DeleteClassSession(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ConvertPreview backs the scheduling form's live conversion hint. Pure;
// touches neither storage nor the lock.
func (s *Service) ConvertPreview(req *api.ConvertRequest) (*api.ConvertResponse, error) {
	const op = "service.ConvertPreview"

	tz := req.Timezone
	if tz == "" {
		tz = s.defaultTZ
	}

	switch req.Direction {
	case "to_utc":
		instant, err := timezone.ToUTC(req.Date, req.Time, tz)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &api.ConvertResponse{
			UTCDate:     instant.UTCDate,
			UTCTime:     instant.UTCTime,
			UTCDateTime: instant.UTCDateTime,
			Timezone:    tz,
		}, nil

	case "from_utc":
		local, err := timezone.FromUTC(req.Date, req.Time, tz)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		display, err := timezone.Format(req.Date, req.Time, tz, timezone.FormatOptions{
			ShowDate: true, ShowTime: true, ShowTimezone: true, Hour12: true,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &api.ConvertResponse{
			LocalDate: local.Date,
			LocalTime: local.Time,
			Timezone:  tz,
			Display:   display,
		}, nil

	default:
		return nil, fmt.Errorf("%s: unknown direction %q: %w", op, req.Direction, response.ErrBadRequest)
	}
}

// Timezones returns the picker list plus the configured default, with the
// current local date/time in the default zone for form pre-fill.
func (s *Service) Timezones() (*api.TimezonesResponse, error) {
	const op = "service.Timezones"

	zones := timezone.CommonTimezones()

	result := make([]api.TimezoneEntry, 0, len(zones))
	for _, z := range zones {
		result = append(result, api.TimezoneEntry{Value: z.Value, Label: z.Label})
	}

	local, err := timezone.CurrentLocalDateTime(s.now(), s.defaultTZ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.TimezonesResponse{
		Timezones: result,
		Default:   s.defaultTZ,
		LocalDate: local.Date,
		LocalTime: local.Time,
	}, nil
}

func (s *Service) toClassResponse(session *models.ClassSession, viewerTZ string) (*api.ClassResponse, error) {
	if viewerTZ == "" {
		viewerTZ = session.Timezone
	}
	if viewerTZ == "" {
		viewerTZ = s.defaultTZ
	}

	local, err := timezone.FromUTC(session.UTCDate, session.UTCTime, viewerTZ)
	if err != nil {
		return nil, err
	}

	return &api.ClassResponse{
		ID:              session.ID,
		TeacherID:       session.TeacherID,
		StudentID:       session.StudentID,
		UTCDate:         session.UTCDate,
		UTCTime:         session.UTCTime,
		UTCDateTime:     session.StartUTC().Format(time.RFC3339),
		LocalDate:       local.Date,
		LocalTime:       local.Time,
		ViewerTimezone:  viewerTZ,
		DurationMinutes: session.DurationMinutes,
		Status:          string(session.Status),
		Timezone:        session.Timezone,
		ZoomLink:        session.ZoomLink,
		Notes:           session.Notes,
	}, nil
}
