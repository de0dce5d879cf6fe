// Package schedule decides whether a proposed class may occupy a teacher's
// calendar. All interval math happens on UTC instants; sessions occupy the
// half-open range [start, start+duration), so back-to-back classes touch
// without colliding.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/models"
)

var ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

// Proposal is a new or edited class start to be checked against a
// teacher's existing bookings. ExcludeSessionID carries the session's own
// id during an edit so its prior stored state cannot collide with itself.
type Proposal struct {
	TeacherID        string
	StartUTC         time.Time
	DurationMinutes  int
	ExcludeSessionID string
}

// ConflictResult reports the outcome of a conflict check. ConflictingIDs
// names every existing session the proposal overlaps, for user-facing
// error reporting.
type ConflictResult struct {
	HasConflict    bool
	ConflictingIDs []string
}

// CheckConflict tests a proposal against the supplied sessions. Sessions
// for other teachers, cancelled or completed sessions, and the excluded
// session are ignored. The caller supplies the freshest snapshot it has;
// the check itself never reads or writes storage.
func CheckConflict(p Proposal, existing []*models.ClassSession) (ConflictResult, error) {
	const op = "schedule.CheckConflict"

	if p.DurationMinutes <= 0 {
		return ConflictResult{}, fmt.Errorf("%s: %d: %w", op, p.DurationMinutes, ErrInvalidDuration)
	}

	start := p.StartUTC
	end := start.Add(time.Duration(p.DurationMinutes) * time.Minute)

	var result ConflictResult
	for _, s := range existing {
		if s.TeacherID != p.TeacherID {
			continue
		}
		if !s.Status.OccupiesSlot() {
			continue
		}
		if p.ExcludeSessionID != "" && s.ID == p.ExcludeSessionID {
			continue
		}

		if overlaps(start, end, s.StartUTC(), s.EndUTC()) {
			result.HasConflict = true
			result.ConflictingIDs = append(result.ConflictingIDs, s.ID)
		}
	}

	return result, nil
}

// overlaps applies the half-open interval test: [a,b) and [c,d) intersect
// iff a < d && c < b.
func overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}
