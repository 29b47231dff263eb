package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type contactUsecase struct {
	composer  *email.Composer
	transport domain.MailTransport
	validate  *validator.Validate
	log       *slog.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(composer *email.Composer, transport domain.MailTransport, validate *validator.Validate, log *slog.Logger) domain.ContactUsecase {
	return &contactUsecase{
		composer:  composer,
		transport: transport,
		validate:  validate,
		log:       log.With("component", "contact"),
	}
}

// SendContactMessage validates the contact request and sends the email
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) (domain.DeliveryReceipt, error) {
	log := uc.log.With("request_id", domain.RequestIDFrom(ctx))

	if err := uc.validateRequest(req); err != nil {
		log.DebugContext(ctx, "Contact submission rejected", "reasons", validation.FormatValidationErrors(err))
		return domain.DeliveryReceipt{}, err
	}

	if !uc.composer.IsConfigured() {
		log.ErrorContext(ctx, "Error sending email", "error", domain.ErrEmailNotConfigured, "failure_class", email.FailureConfig)
		return domain.DeliveryReceipt{}, domain.ErrEmailNotConfigured
	}

	msg, err := uc.composer.Compose(*req)
	if err != nil {
		log.ErrorContext(ctx, "Error composing email", "error", err)
		return domain.DeliveryReceipt{}, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	receipt, err := uc.transport.Send(ctx, msg)
	if err != nil {
		log.ErrorContext(ctx, "Error sending email", "error", err, "failure_class", email.ClassifyError(err))
		if !errors.Is(err, domain.ErrDeliveryFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
		}
		return domain.DeliveryReceipt{}, err
	}

	log.InfoContext(ctx, "Message sent", "message_id", receipt.MessageID)
	return receipt, nil
}

// validateRequest reports ErrMissingFields before any format problem, so a
// submission lacking a field always gets the same answer.
func (uc *contactUsecase) validateRequest(req *domain.ContactRequest) error {
	if req == nil {
		return domain.ErrMissingFields
	}
	err := uc.validate.Struct(req)
	if err == nil {
		return nil
	}

	missing, invalid := validation.SplitFieldErrors(err)
	switch {
	case len(missing) > 0:
		return fmt.Errorf("%w: %w", domain.ErrMissingFields, err)
	case len(invalid) > 0:
		return fmt.Errorf("%w: %w", domain.ErrInvalidEmail, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
}
