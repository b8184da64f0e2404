package notification

import (
	"strings"
	"time"
)

// Email bodies for each event type. Placeholders are substituted by
// fillTemplate; the QR image, when present, is referenced by cid.
const (
	reservationTemplate = `<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Parking Reservation Confirmation</h2>
    <p>Your parking slot has been reserved.</p>
    <ul>
      <li><b>Slot:</b> {{slot}}</li>
      <li><b>Date:</b> {{formattedDate}}</li>
      <li><b>From:</b> {{startTime}}</li>
      <li><b>To:</b> {{endTime}}</li>
    </ul>
    <p>Show the attached QR code at the gate to check in.</p>
    <img src="cid:qrCodeImage" alt="QR code"/>
  </body>
</html>`

	updateTemplate = `<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Parking Reservation Update</h2>
    <p>Your parking reservation has been updated.</p>
    <ul>
      <li><b>Slot:</b> {{slot}}</li>
      <li><b>Date:</b> {{formattedDate}}</li>
      <li><b>From:</b> {{startTime}}</li>
      <li><b>To:</b> {{endTime}}</li>
    </ul>
    <p>Your previous QR code is no longer valid. Use the attached one.</p>
    <img src="cid:qrCodeImage" alt="QR code"/>
  </body>
</html>`

	cancellationTemplate = `<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Parking Reservation Cancellation</h2>
    <p>Your parking reservation has been cancelled.</p>
    <ul>
      <li><b>Slot:</b> {{slot}}</li>
      <li><b>Date:</b> {{formattedDate}}</li>
      <li><b>From:</b> {{startTime}}</li>
      <li><b>To:</b> {{endTime}}</li>
    </ul>
  </body>
</html>`

	adminCancellationTemplate = `<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Parking Reservation Cancellation</h2>
    <p>Your parking reservation has been cancelled by an administrator.
       Please contact support if you believe this is a mistake.</p>
    <ul>
      <li><b>Slot:</b> {{slot}}</li>
      <li><b>Date:</b> {{formattedDate}}</li>
      <li><b>From:</b> {{startTime}}</li>
      <li><b>To:</b> {{endTime}}</li>
    </ul>
  </body>
</html>`
)

// fillTemplate substitutes the reservation placeholders into an email body.
func fillTemplate(tmpl, slot, date, startTime, endTime string) string {
	formattedDate := date
	if d, err := time.Parse("2006-01-02", date); err == nil {
		formattedDate = d.Format("Monday, January 2, 2006")
	}

	r := strings.NewReplacer(
		"{{slot}}", slot,
		"{{formattedDate}}", formattedDate,
		"{{startTime}}", startTime,
		"{{endTime}}", endTime,
	)
	return r.Replace(tmpl)
}
