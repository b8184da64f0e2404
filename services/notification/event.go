package notification

import (
	"encoding/base64"
	"fmt"

	"parkhive/models"

	qrcode "github.com/skip2/go-qrcode"
)

// NewEvent builds the queue envelope for a reservation lifecycle transition.
// Reservation and update emails carry an inline QR code encoding the exact
// schedule, which the verify endpoint matches on at the gate.
func NewEvent(eventType string, res *models.Reservation) models.NotificationEvent {
	payload := models.NotificationPayload{
		Slot:      res.Slot,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Date:      res.Date,
		Email:     res.UserEmail,
	}

	if eventType == models.EventReservation || eventType == models.EventUpdate {
		content := fmt.Sprintf("%d|%s|%s|%s", res.Slot, res.Date, res.StartTime, res.EndTime)
		if png, err := qrcode.Encode(content, qrcode.Medium, 256); err == nil {
			payload.QRCodeImage = base64.StdEncoding.EncodeToString(png)
		}
	}

	return models.NotificationEvent{Type: eventType, Data: payload}
}
