package models

import "time"

type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// ValidTransition reports whether a session may move from one status to
// another. completed and cancelled are terminal.
func ValidTransition(from, to SessionStatus) bool {
	switch from {
	case SessionScheduled:
		return to == SessionInProgress || to == SessionCancelled
	case SessionInProgress:
		return to == SessionCompleted || to == SessionCancelled
	default:
		return false
	}
}

// OccupiesSlot reports whether a session in this status blocks other
// bookings for the same teacher.
func (s SessionStatus) OccupiesSlot() bool {
	return s == SessionScheduled || s == SessionInProgress
}

// ClassSession is a single teacher-student class. The start instant is
// stored canonically in UTC (utc_date + utc_time); Timezone records the
// zone the class was authored in and is used only for display.
type ClassSession struct {
	ID              string        `db:"session_id"`
	TeacherID       string        `db:"teacher_id"`
	StudentID       string        `db:"student_id"`
	UTCDate         string        `db:"utc_date"`
	UTCTime         string        `db:"utc_time"`
	DurationMinutes int           `db:"duration_minutes"`
	Status          SessionStatus `db:"status"`
	Timezone        string        `db:"timezone"`
	ZoomLink        string        `db:"zoom_link"`
	Notes           string        `db:"notes"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

// StartUTC returns the session's start instant. UTCDate/UTCTime are
// trusted to be well-formed because they are only ever written through
// the timezone conversion layer.
func (c *ClassSession) StartUTC() time.Time {
	t, _ := time.Parse("2006-01-02 15:04", c.UTCDate+" "+c.UTCTime)
	return t
}

// EndUTC returns the exclusive end of the session's occupied interval.
func (c *ClassSession) EndUTC() time.Time {
	return c.StartUTC().Add(time.Duration(c.DurationMinutes) * time.Minute)
}
