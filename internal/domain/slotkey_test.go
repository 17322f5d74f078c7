package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/pkg/types"
)

func TestResolveSlotKey_UTC(t *testing.T) {
	appointmentAt := time.Date(2024, 6, 1, 10, 30, 45, 0, time.UTC)

	key, err := ResolveSlotKey("MAIN", appointmentAt)

	require.NoError(t, err)
	assert.Equal(t, "MAIN", key.BranchID)
	assert.Equal(t, "2024-06-01", key.Date)
	assert.Equal(t, types.TimeString("10:30"), key.Time)
}

func TestResolveSlotKey_NormalizesZoneToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	// 01:30 UTC+3 = 22:30 UTC предыдущего дня
	appointmentAt := time.Date(2024, 6, 2, 1, 30, 0, 0, zone)

	key, err := ResolveSlotKey("MAIN", appointmentAt)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", key.Date)
	assert.Equal(t, types.TimeString("22:30"), key.Time)
}

func TestResolveSlotKey_Deterministic(t *testing.T) {
	appointmentAt := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)

	first, err := ResolveSlotKey("NORTH", appointmentAt)
	require.NoError(t, err)
	second, err := ResolveSlotKey("NORTH", appointmentAt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveSlotKey_ZeroTimeRejected(t *testing.T) {
	_, err := ResolveSlotKey("MAIN", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidAppointmentTime)
}
