package reservation

import (
	"errors"
	"fmt"
)

// Error codes for reservation business failures.
const (
	CodeInvalidSchedule         = "invalidSchedule"
	CodeInvalidSlot             = "invalidSlot"
	CodeInvalidSchedulingWindow = "invalidSchedulingWindow"
	CodeSlotConflict            = "slotConflict"
	CodeNotFound                = "notFound"
	CodeNotificationUnavailable = "notificationUnavailable"
)

// Error is a typed business failure returned by the reservation engine.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrInvalidSchedule = &Error{
		Code:    CodeInvalidSchedule,
		Message: "End time cannot be before or equal to start time.",
	}
	ErrInvalidSlot = &Error{
		Code:    CodeInvalidSlot,
		Message: "Invalid slot number",
	}
	ErrInvalidSchedulingWindow = &Error{
		Code:    CodeInvalidSchedulingWindow,
		Message: "Reservations must start in the future and no later than tomorrow",
	}
	ErrSlotConflict = &Error{
		Code:    CodeSlotConflict,
		Message: "Slot already reserved, Please choose another slot",
	}
	ErrNotFound = &Error{
		Code:    CodeNotFound,
		Message: "Reservation not found",
	}
	ErrNotificationUnavailable = &Error{
		Code:    CodeNotificationUnavailable,
		Message: "Notification queue is unavailable",
	}
)

// HasCode reports whether err is a reservation Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
