package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Wizard steps of the booking flow.
const (
	StepDateTime  = 1
	StepEquipment = 2
	StepPayment   = 3
	StepConfirm   = 4
)

const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

const (
	// DefaultOpenHour and DefaultCloseHour bound the bookable window.
	DefaultOpenHour  = 8
	DefaultCloseHour = 17

	// MinDurationHours and MaxDurationHours bound the selectable duration.
	MinDurationHours = 1
	MaxDurationHours = 4

	// DefaultStateTTL время жизни состояния визарда в Redis (seconds).
	DefaultStateTTL = 24 * 60 * 60

	// RateLimitRequests and RateLimitWindow cap API request frequency.
	RateLimitRequests = 20
	RateLimitWindow   = 60

	// WorkerQueueSize размер очереди save-воркера.
	WorkerQueueSize = 1000
)

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}
