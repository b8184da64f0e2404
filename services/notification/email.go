package notification

import (
	"fmt"
	"net/smtp"
	"strconv"

	"parkhive/config"
	"parkhive/models"
	"parkhive/utils"

	"go.uber.org/zap"
)

// smtpSender implements EmailSender over plain SMTP.
type smtpSender struct {
	from     string
	password string
	host     string
	port     string
	logger   *zap.Logger
}

// NewSMTPSender creates an EmailSender from the loaded app configuration.
func NewSMTPSender() EmailSender {
	return &smtpSender{
		from:     config.AppConfig.SMTPUser,
		password: config.AppConfig.SMTPPassword,
		host:     config.AppConfig.SMTPHost,
		port:     config.AppConfig.SMTPPort,
		logger:   utils.GetLogger(),
	}
}

func (s *smtpSender) SendReservationEmail(data models.NotificationPayload) error {
	body := fillTemplate(reservationTemplate, strconv.Itoa(data.Slot), data.Date, data.StartTime, data.EndTime)
	return s.send(data.Email, "Parking Reservation Confirmation", body, data.QRCodeImage)
}

func (s *smtpSender) SendUpdateEmail(data models.NotificationPayload) error {
	body := fillTemplate(updateTemplate, strconv.Itoa(data.Slot), data.Date, data.StartTime, data.EndTime)
	return s.send(data.Email, "Parking Reservation Update", body, data.QRCodeImage)
}

func (s *smtpSender) SendCancellationEmail(data models.NotificationPayload) error {
	body := fillTemplate(cancellationTemplate, strconv.Itoa(data.Slot), data.Date, data.StartTime, data.EndTime)
	return s.send(data.Email, "Parking Reservation Cancellation", body, "")
}

func (s *smtpSender) SendAdminCancellationEmail(data models.NotificationPayload) error {
	body := fillTemplate(adminCancellationTemplate, strconv.Itoa(data.Slot), data.Date, data.StartTime, data.EndTime)
	return s.send(data.Email, "Parking Reservation Cancellation", body, "")
}

func (s *smtpSender) send(to, subject, htmlBody, qrBase64 string) error {
	msg := buildMessage(s.from, to, subject, htmlBody, qrBase64)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	s.logger.Info("Sending notification email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		s.logger.Error("Error sending notification email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// buildMessage assembles the raw MIME message. When a QR image is present the
// message is multipart/related with the PNG attached inline under the
// qrCodeImage content ID referenced from the HTML body.
func buildMessage(from, to, subject, htmlBody, qrBase64 string) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", from, to, subject)

	if qrBase64 == "" {
		msg := headers +
			"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
			htmlBody
		return []byte(msg)
	}

	const boundary = "parkhive-mail-boundary"
	msg := headers +
		fmt.Sprintf("Content-Type: multipart/related; boundary=%q\r\n\r\n", boundary) +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		htmlBody + "\r\n" +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: image/png\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"Content-ID: <qrCodeImage>\r\n" +
		"Content-Disposition: inline; filename=\"qr-code.png\"\r\n\r\n" +
		qrBase64 + "\r\n" +
		fmt.Sprintf("--%s--\r\n", boundary)
	return []byte(msg)
}
