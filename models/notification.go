package models

// Notification event types, one per reservation lifecycle transition that
// triggers an email.
const (
	EventReservation       = "reservation"
	EventUpdate            = "update"
	EventCancellation      = "cancellation"
	EventCancellationAdmin = "cancellation-admin"
)

// NotificationPayload is the reservation data carried by a queued event.
type NotificationPayload struct {
	Slot        int    `json:"slot"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Date        string `json:"date"`
	Email       string `json:"email"`
	QRCodeImage string `json:"qrCodeImage,omitempty"` // base64 PNG, present on reservation/update
}

// NotificationEvent is the envelope enqueued for the notification worker.
// Immutable once published.
type NotificationEvent struct {
	Type string              `json:"type"`
	Data NotificationPayload `json:"data"`
}
