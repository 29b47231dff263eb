package v1

import (
	"errors"
	"io"
	"net/http"

	"contact-relay-backend/internal/delivery/http/response"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Client-facing messages. Transport details never appear here.
const (
	MsgEmailSent      = "Email sent successfully!"
	MsgMissingFields  = "All fields are required (name, email, subject, message)."
	MsgInvalidEmail   = "Please provide a valid email address."
	MsgDeliveryFailed = "Failed to send email. Check SMTP configuration."
	MsgInvalidBody    = "Invalid request body."
)

const maxContactBodyBytes = 64 << 10

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form submission to the site inbox by email.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.SuccessBody
// @Failure      400      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)

	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty body is a submission with every field missing.
		if errors.Is(err, io.EOF) {
			c.Error(apperror.New(http.StatusBadRequest, MsgMissingFields, err))
			return
		}
		c.Error(apperror.New(http.StatusBadRequest, MsgInvalidBody, err))
		return
	}

	if _, err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(contactError(err))
		return
	}

	response.Success(c, http.StatusOK, MsgEmailSent)
}

func contactError(err error) *apperror.AppError {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return apperror.New(http.StatusBadRequest, MsgInvalidEmail, err)
	case errors.Is(err, domain.ErrValidation):
		return apperror.New(http.StatusBadRequest, MsgMissingFields, err)
	default:
		return apperror.New(http.StatusInternalServerError, MsgDeliveryFailed, err)
	}
}
