package participation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.False(t, StatusIncomplete.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusComplete.Terminal())
}

func TestSetStatusSticksAtTerminal(t *testing.T) {
	p := New(uuid.New(), "+5215550000001", "onboarding")
	assert.Equal(t, StatusIncomplete, p.Status)

	p.SetStatus(StatusPending)
	assert.Equal(t, StatusPending, p.Status)

	p.SetStatus(StatusRejected)
	p.SetStatus(StatusComplete)
	assert.Equal(t, StatusRejected, p.Status, "terminal status must not be overwritten")
}

func TestDayUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	p := New(uuid.New(), "+5215550000001", "onboarding")
	// 03:00 UTC is still the previous calendar day in Mexico City
	p.CreatedAt = time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-10", p.Day(time.UTC))
	assert.Equal(t, "2026-03-09", p.Day(loc))
}
