package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default configuration values
const (
	DefaultSlotLockTTLMinutes = 10
)

// Business validation constants
const (
	MaxReasonLength       = 500
	MaxInternalNoteLength = 500
)

// SlotBlockingStatuses список статусов, при которых бронирование занимает слот
// Используется при проверке доступности слота в момент захвата блокировки
var SlotBlockingStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
}
