package notifier

// Notification сообщение для отправки пользователю
type Notification struct {
	UserID   int64             `json:"userId"`
	Title    string            `json:"title"`
	Message  string            `json:"message"`
	Type     string            `json:"type"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Типы уведомлений
const (
	TypeBookingCreated   = "BOOKING_CREATED"
	TypeBookingApproved  = "BOOKING_APPROVED"
	TypeBookingRejected  = "BOOKING_REJECTED"
	TypeBookingCancelled = "BOOKING_CANCELLED"
	TypeBookingCompleted = "BOOKING_COMPLETED"
)
