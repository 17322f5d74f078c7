package domain

import (
	"time"

	"github.com/m04kA/SMC-ServiceCenter/pkg/types"
)

// SlotLock represents a short-lived exclusive lock on a booking slot.
// A lock lives only for the duration of one booking-creation attempt;
// uniqueness on (branch_id, slot_date, slot_time) is enforced by the store.
type SlotLock struct {
	ID             string // uuid
	BranchID       string
	SlotDate       string
	SlotTime       types.TimeString
	LockedByUserID int64
	AppointmentAt  time.Time
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// IsExpired returns true if the lock TTL has passed at the given moment
func (l *SlotLock) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// Key returns the slot key the lock guards
func (l *SlotLock) Key() SlotKey {
	return SlotKey{BranchID: l.BranchID, Date: l.SlotDate, Time: l.SlotTime}
}
