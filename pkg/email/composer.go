package email

import (
	"net/mail"
	"strings"

	"contact-relay-backend/internal/domain"
)

// ComposerConfig is the static part of every contact email.
type ComposerConfig struct {
	EnvelopeFrom  string // Authenticated relay account
	To            string
	SubjectPrefix string
	Branding      Branding
}

// Composer turns validated submissions into outbound messages. It holds no
// mutable state and is safe for concurrent use.
type Composer struct {
	cfg ComposerConfig
}

func NewComposer(cfg ComposerConfig) *Composer {
	return &Composer{cfg: cfg}
}

// IsConfigured reports whether there is somewhere to send messages to.
func (c *Composer) IsConfigured() bool {
	return c.cfg.To != "" && c.cfg.EnvelopeFrom != ""
}

// Compose renders the message for one submission. The caller must have
// validated req already.
func (c *Composer) Compose(req domain.ContactRequest) (domain.OutboundMessage, error) {
	content := ContactContent{
		SenderName:  headerValue(req.Name),
		SenderEmail: headerValue(req.Email),
		Subject:     headerValue(req.Subject),
		Message:     req.Message,
	}

	text, err := RenderText(content)
	if err != nil {
		return domain.OutboundMessage{}, err
	}
	html, err := RenderHTML(c.cfg.Branding, content)
	if err != nil {
		return domain.OutboundMessage{}, err
	}

	from := (&mail.Address{Name: content.SenderName, Address: content.SenderEmail}).String()

	return domain.OutboundMessage{
		From:    from,
		ReplyTo: content.SenderEmail,
		To:      c.cfg.To,
		Subject: c.cfg.SubjectPrefix + content.Subject,
		Text:    text,
		HTML:    html,
		Envelope: domain.Envelope{
			From: c.cfg.EnvelopeFrom,
			To:   []string{c.cfg.To},
		},
	}, nil
}

// headerValue trims v and folds any line breaks into spaces so user input
// can never start a new header.
func headerValue(v string) string {
	v = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v)
	return strings.TrimSpace(v)
}
