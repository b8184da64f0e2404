package notification

import (
	"errors"

	"parkhive/models"
)

// ErrUnavailable is returned by a Publisher when the queue broker cannot be
// reached. Callers log it and move on; a committed reservation is never
// rolled back because its notification could not be enqueued.
var ErrUnavailable = errors.New("notification queue is unavailable")

// Publisher enqueues notification events for asynchronous, at-least-once
// delivery by the notification worker.
type Publisher interface {
	Publish(event models.NotificationEvent) error
}

// EmailSender dispatches a notification payload as an email. One method per
// event type; the worker selects which to call.
type EmailSender interface {
	SendReservationEmail(data models.NotificationPayload) error
	SendUpdateEmail(data models.NotificationPayload) error
	SendCancellationEmail(data models.NotificationPayload) error
	SendAdminCancellationEmail(data models.NotificationPayload) error
}
