package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"contact-relay-backend/config"
	"contact-relay-backend/internal/domain"

	"github.com/google/uuid"
)

// SMTPTransport delivers messages through an SMTP relay. Every Send dials a
// fresh connection; the struct itself is read-only after construction.
type SMTPTransport struct {
	host      string
	port      string
	username  string
	password  string
	secure    bool
	timeout   time.Duration
	tlsConfig *tls.Config
	now       func() time.Time
}

// NewSMTPTransport creates a transport from the SMTP section of the config
func NewSMTPTransport(cfg *config.Config) *SMTPTransport {
	return &SMTPTransport{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		secure:    cfg.SMTPSecure,
		timeout:   time.Duration(cfg.SMTPTimeoutSec) * time.Second,
		tlsConfig: &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12},
		now:       time.Now,
	}
}

// IsConfigured checks if the transport has valid SMTP configuration
func (t *SMTPTransport) IsConfigured() bool {
	return t.host != "" && t.port != "" && t.username != "" && t.password != ""
}

// Send builds the MIME payload for msg and runs one SMTP transaction. The
// returned receipt carries the Message-ID header of the delivered message.
func (t *SMTPTransport) Send(ctx context.Context, msg domain.OutboundMessage) (domain.DeliveryReceipt, error) {
	// Never talk to the relay without credentials.
	if !t.IsConfigured() || msg.Envelope.From == "" || len(msg.Envelope.To) == 0 {
		return domain.DeliveryReceipt{}, domain.ErrEmailNotConfigured
	}

	messageID := newMessageID(msg.Envelope.From, t.host)
	payload, err := buildMIME(msg, messageID, t.now())
	if err != nil {
		return domain.DeliveryReceipt{}, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if err := t.deliver(ctx, msg.Envelope, payload); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return domain.DeliveryReceipt{}, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	return domain.DeliveryReceipt{MessageID: messageID}, nil
}

func (t *SMTPTransport) deliver(ctx context.Context, env domain.Envelope, payload []byte) error {
	addr := net.JoinHostPort(t.host, t.port)
	dialer := &net.Dialer{Timeout: t.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &StageError{Stage: StageConnect, Err: err}
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblocks any pending read/write when the request goes away.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if t.secure {
		tlsConn := tls.Client(conn, t.tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return &StageError{Stage: StageTLS, Err: err}
		}
		conn = tlsConn
	}

	c, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return &StageError{Stage: StageConnect, Err: err}
	}
	defer c.Close()

	if !t.secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(t.tlsConfig); err != nil {
				return &StageError{Stage: StageTLS, Err: err}
			}
		}
	}

	if t.username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return &StageError{Stage: StageAuth, Err: fmt.Errorf("server %s does not support AUTH", t.host)}
		}
		if err := c.Auth(smtp.PlainAuth("", t.username, t.password, t.host)); err != nil {
			return &StageError{Stage: StageAuth, Err: err}
		}
	}

	if err := c.Mail(env.From); err != nil {
		return &StageError{Stage: StageMail, Err: err}
	}
	for _, rcpt := range env.To {
		if err := c.Rcpt(rcpt); err != nil {
			return &StageError{Stage: StageRcpt, Err: err}
		}
	}

	w, err := c.Data()
	if err != nil {
		return &StageError{Stage: StageData, Err: err}
	}
	if _, err := w.Write(payload); err != nil {
		return &StageError{Stage: StageData, Err: err}
	}
	if err := w.Close(); err != nil {
		return &StageError{Stage: StageData, Err: err}
	}

	// The relay accepted the message once DATA closed; a failed QUIT is not a delivery failure.
	_ = c.Quit()
	return nil
}

// buildMIME renders msg as a multipart/alternative message with a text and
// an HTML part, both quoted-printable.
func buildMIME(msg domain.OutboundMessage, messageID string, date time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var head bytes.Buffer
	writeHeader(&head, "From", msg.From)
	if msg.ReplyTo != "" {
		writeHeader(&head, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&head, "To", msg.To)
	writeHeader(&head, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&head, "Date", date.Format(time.RFC1123Z))
	writeHeader(&head, "Message-ID", messageID)
	writeHeader(&head, "MIME-Version", "1.0")
	writeHeader(&head, "Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
	head.WriteString("\r\n")

	return append(head.Bytes(), body.Bytes()...), nil
}

func writeHeader(b *bytes.Buffer, key, value string) {
	value = strings.NewReplacer("\r", "", "\n", "").Replace(value)
	fmt.Fprintf(b, "%s: %s\r\n", key, value)
}

// newMessageID returns an RFC 5322 msg-id using the sender's domain when it
// has one.
func newMessageID(sender, fallbackHost string) string {
	domainPart := fallbackHost
	if at := strings.LastIndexByte(sender, '@'); at >= 0 && at < len(sender)-1 {
		domainPart = sender[at+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domainPart)
}
