package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceCenter/pkg/ptr"
)

var allStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusLateCancelled,
	StatusNoShow,
	StatusCompleted,
	StatusNotServed,
}

func TestAssertTransition_FullMatrix(t *testing.T) {
	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending: {
			StatusApproved:      true,
			StatusRejected:      true,
			StatusCancelled:     true,
			StatusLateCancelled: true,
		},
		StatusApproved: {
			StatusRejected:      true,
			StatusCancelled:     true,
			StatusLateCancelled: true,
			StatusNoShow:        true,
			StatusNotServed:     true,
			StatusCompleted:     true,
		},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := AssertTransition(from, to)
			if from != to && allowed[from][to] {
				assert.NoError(t, err, "%s -> %s must be allowed", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition, "%s -> %s must be rejected", from, to)
			}
		}
	}
}

func TestAssertTransition_SelfTransitionRejected(t *testing.T) {
	for _, status := range allStatuses {
		err := AssertTransition(status, status)
		require.ErrorIs(t, err, ErrInvalidStatusTransition)
	}
}

func TestAssertTransition_ErrorNamesBothStates(t *testing.T) {
	err := AssertTransition(StatusCompleted, StatusPending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(StatusCompleted))
	assert.Contains(t, err.Error(), string(StatusPending))
}

func completedBooking() *Booking {
	completedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Booking{
		Status:                StatusApproved,
		FinalPrice:            ptr.Ptr(150.0),
		InternalNote:          ptr.Ptr("replaced brake pads"),
		PerformedByEmployeeID: ptr.Ptr(int64(7)),
		CompletedAt:           &completedAt,
		RejectReason:          ptr.Ptr("stale reject"),
		CancelReason:          ptr.Ptr("stale cancel"),
	}
}

func TestApplyTransition_RejectedClearsCompletionAndCancelReason(t *testing.T) {
	b := completedBooking()

	require.NoError(t, b.ApplyTransition(StatusRejected))

	assert.Equal(t, StatusRejected, b.Status)
	assert.Nil(t, b.FinalPrice)
	assert.Nil(t, b.InternalNote)
	assert.Nil(t, b.PerformedByEmployeeID)
	assert.Nil(t, b.CompletedAt)
	assert.Nil(t, b.CancelReason)
	// RejectReason остается - он относится к новому статусу
	assert.NotNil(t, b.RejectReason)
}

func TestApplyTransition_CancelledClearsCompletionAndRejectReason(t *testing.T) {
	for _, to := range []BookingStatus{StatusCancelled, StatusLateCancelled} {
		b := completedBooking()

		require.NoError(t, b.ApplyTransition(to))

		assert.Equal(t, to, b.Status)
		assert.Nil(t, b.FinalPrice)
		assert.Nil(t, b.CompletedAt)
		assert.Nil(t, b.RejectReason)
		assert.NotNil(t, b.CancelReason)
	}
}

func TestApplyTransition_NotServedClearsEverything(t *testing.T) {
	b := completedBooking()

	require.NoError(t, b.ApplyTransition(StatusNotServed))

	assert.Equal(t, StatusNotServed, b.Status)
	assert.Nil(t, b.FinalPrice)
	assert.Nil(t, b.InternalNote)
	assert.Nil(t, b.PerformedByEmployeeID)
	assert.Nil(t, b.CompletedAt)
	assert.Nil(t, b.RejectReason)
	assert.Nil(t, b.CancelReason)
}

func TestApplyTransition_CompletedClearsReasons(t *testing.T) {
	b := &Booking{
		Status:       StatusApproved,
		RejectReason: ptr.Ptr("stale reject"),
		CancelReason: ptr.Ptr("stale cancel"),
	}

	require.NoError(t, b.ApplyTransition(StatusCompleted))

	assert.Equal(t, StatusCompleted, b.Status)
	assert.Nil(t, b.RejectReason)
	assert.Nil(t, b.CancelReason)
}

func TestApplyTransition_InvalidTransitionLeavesBookingUntouched(t *testing.T) {
	b := completedBooking()
	b.Status = StatusCompleted

	err := b.ApplyTransition(StatusApproved)

	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusCompleted, b.Status)
	assert.NotNil(t, b.FinalPrice)
}

func TestIsSlotBlocking(t *testing.T) {
	blocking := map[BookingStatus]bool{
		StatusPending:  true,
		StatusApproved: true,
	}

	for _, status := range allStatuses {
		b := &Booking{Status: status}
		assert.Equal(t, blocking[status], b.IsSlotBlocking(), "status %s", status)
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []BookingStatus{
		StatusRejected, StatusCancelled, StatusLateCancelled,
		StatusNoShow, StatusCompleted, StatusNotServed,
	}
	for _, status := range terminal {
		b := &Booking{Status: status}
		assert.True(t, b.IsTerminal(), "status %s", status)
	}

	assert.False(t, (&Booking{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusApproved}).IsTerminal())
}
