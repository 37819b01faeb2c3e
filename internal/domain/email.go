package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	Email         string
	FirstName     string
	LastName      string
	EventName     string
	EventLocation string
	StartDateTime time.Time
	EndDateTime   time.Time
	Price         string
	IsFree        bool
	Description   string
	Tags          []string
	// AvailableSpots is nil for unlimited capacity.
	AvailableSpots *int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
}
