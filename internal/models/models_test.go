package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from, to SessionStatus
		want     bool
	}{
		{SessionScheduled, SessionInProgress, true},
		{SessionScheduled, SessionCancelled, true},
		{SessionScheduled, SessionCompleted, false},
		{SessionInProgress, SessionCompleted, true},
		{SessionInProgress, SessionCancelled, true},
		{SessionInProgress, SessionScheduled, false},
		{SessionCompleted, SessionCancelled, false},
		{SessionCancelled, SessionScheduled, false},
		{SessionCancelled, SessionCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOccupiesSlot(t *testing.T) {
	assert.True(t, SessionScheduled.OccupiesSlot())
	assert.True(t, SessionInProgress.OccupiesSlot())
	assert.False(t, SessionCompleted.OccupiesSlot())
	assert.False(t, SessionCancelled.OccupiesSlot())
}

func TestSessionInterval(t *testing.T) {
	s := &ClassSession{
		UTCDate:         "2025-09-14",
		UTCTime:         "15:00",
		DurationMinutes: 90,
	}

	assert.Equal(t, time.Date(2025, 9, 14, 15, 0, 0, 0, time.UTC), s.StartUTC())
	assert.Equal(t, time.Date(2025, 9, 14, 16, 30, 0, 0, time.UTC), s.EndUTC())
}
