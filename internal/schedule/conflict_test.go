package schedule

import (
	"testing"
	"time"

	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(id, teacherID, utcDate, utcTime string, duration int, status models.SessionStatus) *models.ClassSession {
	return &models.ClassSession{
		ID:              id,
		TeacherID:       teacherID,
		StudentID:       "student-1",
		UTCDate:         utcDate,
		UTCTime:         utcTime,
		DurationMinutes: duration,
		Status:          status,
	}
}

func startAt(utcDate, utcTime string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", utcDate+" "+utcTime)
	return t
}

func TestCheckConflict_Overlap(t *testing.T) {
	existing := []*models.ClassSession{
		session("s1", "t1", "2025-09-14", "10:00", 60, models.SessionScheduled),
	}

	result, err := CheckConflict(Proposal{
		TeacherID:       "t1",
		StartUTC:        startAt("2025-09-14", "10:30"),
		DurationMinutes: 60,
	}, existing)
	require.NoError(t, err)

	assert.True(t, result.HasConflict)
	assert.Equal(t, []string{"s1"}, result.ConflictingIDs)
}

func TestCheckConflict_ProposalInsideExisting(t *testing.T) {
	existing := []*models.ClassSession{
		session("s1", "t1", "2025-09-14", "15:00", 60, models.SessionScheduled),
	}

	result, err := CheckConflict(Proposal{
		TeacherID:       "t1",
		StartUTC:        startAt("2025-09-14", "15:30"),
		DurationMinutes: 30,
	}, existing)
	require.NoError(t, err)

	assert.True(t, result.HasConflict)
	assert.Equal(t, []string{"s1"}, result.ConflictingIDs)
}

func TestCheckConflict_SameSlotOtherTeacher(t *testing.T) {
	existing := []*models.ClassSession{
		session("s1", "t1", "2025-09-14", "15:00", 60, models.SessionScheduled),
	}

	result, err := CheckConflict(Proposal{
		TeacherID:       "t2",
		StartUTC:        startAt("2025-09-14", "15:30"),
		DurationMinutes: 30,
	}, existing)
	require.NoError(t, err)

	assert.False(t, result.HasConflict)
}

func TestCheckConflict_BackToBackIsNotConflict(t *testing.T) {
	// [10:00,11:00) then [11:00,12:00): the half-open intervals touch
	// but do not intersect.
	existing := []*models.ClassSession{
		session("s1", "t1", "2025-09-14", "10:00", 60, models.SessionScheduled),
	}

	after, err := CheckConflict(Proposal{
		TeacherID:       "t1",
		StartUTC:        startAt("2025-09-14", "11:00"),
		DurationMinutes: 60,
	}, existing)
	require.NoError(t, err)
	assert.False(t, after.HasConflict)

	before, err := CheckConflict(Proposal{
		TeacherID:       "t1",
		StartUTC:        startAt("2025-09-14", "09:00"),
		DurationMinutes: 60,
	}, existing)
	require.NoError(t, err)
	assert.False(t, before.HasConflict)
}

func TestCheckConflict_StatusEligibility(t *testing.T) {
	tests := []struct {
		status       models.SessionStatus
		wantConflict bool
	}{
		{models.SessionScheduled, true},
		{models.SessionInProgress, true},
		{models.SessionCompleted, false},
		{models.SessionCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			existing := []*models.ClassSession{
				session("s1", "t1", "2025-09-14", "10:00", 60, tt.status),
			}

			result, err := CheckConflict(Proposal{
				TeacherID:       "t1",
				StartUTC:        startAt("2025-09-14", "10:00"),
				DurationMinutes: 60,
			}, existing)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConflict, result.HasConflict)
		})
	}
}

func TestCheckConflict_EditExcludesOwnPriorState(t *testing.T) {
	// Moving s1 from [10:00,11:00) to [10:15,11:15) must not collide
	// with its own stored record.
	existing := []*models.ClassSession{
		session("s1", "t1", "2025-09-14", "10:00", 60, models.SessionScheduled),
	}

	result, err := CheckConflict(Proposal{
		TeacherID:        "t1",
		StartUTC:         startAt("2025-09-14", "10:15"),
		DurationMinutes:  60,
		ExcludeSessionID: "s1",
	}, existing)
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
}

func TestCheckConflict_MultipleCollisions(t *testing.T) {
	existing := []*models.ClassSession{
		session("s1", "t1", "2025-09-14", "10:00", 60, models.SessionScheduled),
		session("s2", "t1", "2025-09-14", "11:00", 60, models.SessionInProgress),
		session("s3", "t1", "2025-09-14", "13:00", 60, models.SessionScheduled),
	}

	result, err := CheckConflict(Proposal{
		TeacherID:       "t1",
		StartUTC:        startAt("2025-09-14", "10:30"),
		DurationMinutes: 90,
	}, existing)
	require.NoError(t, err)

	assert.True(t, result.HasConflict)
	assert.Equal(t, []string{"s1", "s2"}, result.ConflictingIDs)
}

func TestCheckConflict_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, -30} {
		_, err := CheckConflict(Proposal{
			TeacherID:       "t1",
			StartUTC:        startAt("2025-09-14", "10:00"),
			DurationMinutes: d,
		}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestCheckConflict_EmptyCalendar(t *testing.T) {
	result, err := CheckConflict(Proposal{
		TeacherID:       "t1",
		StartUTC:        startAt("2025-09-14", "10:00"),
		DurationMinutes: 60,
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	assert.Empty(t, result.ConflictingIDs)
}
