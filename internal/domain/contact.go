package domain

import (
	"context"
	"errors"
	"fmt"
)

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,not_blank"`
	Email   string `json:"email" validate:"required,not_blank,max=254,mailbox"`
	Subject string `json:"subject" validate:"required,not_blank"`
	Message string `json:"message" validate:"required,not_blank"`
}

// Envelope is the SMTP-level routing of a message. From is the account the
// relay authenticated, which may differ from the From header.
type Envelope struct {
	From string
	To   []string
}

// OutboundMessage is a fully rendered email built from one validated
// ContactRequest.
type OutboundMessage struct {
	From     string // Display header, e.g. "Jane Doe" <jane@example.com>
	ReplyTo  string
	To       string
	Subject  string
	Text     string
	HTML     string
	Envelope Envelope
}

// DeliveryReceipt is what the relay gave back for an accepted message.
type DeliveryReceipt struct {
	MessageID string
}

var (
	// ErrValidation is the category of every client input error.
	ErrValidation = errors.New("validation error")

	ErrMissingFields = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrInvalidEmail  = fmt.Errorf("%w: invalid email address", ErrValidation)

	// ErrDeliveryFailed wraps every failure of the mail transport.
	ErrDeliveryFailed = errors.New("delivery failed")

	ErrEmailNotConfigured = fmt.Errorf("%w: email service is not configured", ErrDeliveryFailed)
)

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission and relays it to the
	// configured inbox.
	SendContactMessage(ctx context.Context, req *ContactRequest) (DeliveryReceipt, error)
}

// MailTransport hands a message to a mail relay.
type MailTransport interface {
	Send(ctx context.Context, msg OutboundMessage) (DeliveryReceipt, error)
}
