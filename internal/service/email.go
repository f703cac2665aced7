package service

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
)

type sendFunc func(ctx context.Context, m *mail.SGMailV3) (status int, body string, err error)

type sendGridEmailService struct {
	fromEmail string
	fromName  string
	send      sendFunc
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	client := sendgrid.NewSendClient(apiKey)
	return &sendGridEmailService{
		fromEmail: fromEmail,
		fromName:  fromName,
		send: func(ctx context.Context, m *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, m)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		},
	}
}

func (s *sendGridEmailService) sendEmail(ctx context.Context, to, subject, plainText, htmlContent string) error {
	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), subject, mail.NewEmail("", to), plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "subject", subject)
	status, body, err := s.send(ctx, message)
	if err == nil && status >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", status, body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "status", status)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *sendGridEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	subject := fmt.Sprintf("New booking request: %s", propertyTitle)
	plainText := fmt.Sprintf("%s has requested to book %s. Review it on your dashboard.", tenantName, propertyTitle)
	htmlContent := fmt.Sprintf(`<h2>New booking request</h2>
<p><strong>%s</strong> has requested to book <strong>%s</strong>.</p>
<p>Review it on your owner dashboard.</p>`, html.EscapeString(tenantName), html.EscapeString(propertyTitle))
	return s.sendEmail(ctx, ownerEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle string, status domain.BookingStatus) error {
	subject := fmt.Sprintf("Your booking for %s is %s", propertyTitle, status)
	plainText := fmt.Sprintf("The owner of %s has marked your booking as %s.", propertyTitle, status)
	htmlContent := fmt.Sprintf(`<h2>Booking %s</h2>
<p>The owner of <strong>%s</strong> has marked your booking as <strong>%s</strong>.</p>`, status, html.EscapeString(propertyTitle), status)
	return s.sendEmail(ctx, tenantEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendBookingCancellationNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	subject := fmt.Sprintf("Booking cancelled: %s", propertyTitle)
	plainText := fmt.Sprintf("%s has cancelled their booking for %s.", tenantName, propertyTitle)
	htmlContent := fmt.Sprintf(`<h2>Booking cancelled</h2>
<p><strong>%s</strong> has cancelled their booking for <strong>%s</strong>.</p>`, html.EscapeString(tenantName), html.EscapeString(propertyTitle))
	return s.sendEmail(ctx, ownerEmail, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendPaymentReceipt(ctx context.Context, email, name, transactionID string, amountCents int64) error {
	amount := domain.FormatCents(amountCents)
	subject := fmt.Sprintf("Payment receipt %s", transactionID)
	plainText := fmt.Sprintf("Hello %s,\n\nWe received your payment of %s.\nTransaction ID: %s", name, amount, transactionID)
	htmlContent := fmt.Sprintf(`<p>Hello %s,</p>
<p>We received your payment of <strong>%s</strong>.</p>
<p>Transaction ID: <code>%s</code></p>`, html.EscapeString(name), amount, transactionID)
	return s.sendEmail(ctx, email, subject, plainText, htmlContent)
}

// noopEmailService only logs; used when no mail provider is configured.
type noopEmailService struct{}

func NewNoopEmailService() EmailService { return noopEmailService{} }

func (noopEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	logger.FromContext(ctx).Debug("Email suppressed", "kind", "booking_request", "property", propertyTitle)
	return nil
}

func (noopEmailService) SendBookingDecisionNotification(ctx context.Context, tenantEmail, propertyTitle string, status domain.BookingStatus) error {
	logger.FromContext(ctx).Debug("Email suppressed", "kind", "booking_decision", "property", propertyTitle, "status", status)
	return nil
}

func (noopEmailService) SendBookingCancellationNotification(ctx context.Context, ownerEmail, tenantName, propertyTitle string) error {
	logger.FromContext(ctx).Debug("Email suppressed", "kind", "booking_cancellation", "property", propertyTitle)
	return nil
}

func (noopEmailService) SendPaymentReceipt(ctx context.Context, email, name, transactionID string, amountCents int64) error {
	logger.FromContext(ctx).Debug("Email suppressed", "kind", "payment_receipt", "transactionID", transactionID)
	return nil
}
