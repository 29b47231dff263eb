package email

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"contact-relay-backend/config"
	"contact-relay-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP is a single-connection SMTP server good enough for net/smtp.
type fakeSMTP struct {
	ln        net.Listener
	authReply string
	rcptReply string

	mu       sync.Mutex
	authLine string
	mailFrom string
	rcptTo   []string
	data     []byte
	done     chan struct{}
}

func startFakeSMTP(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{
		ln:        ln,
		authReply: "235 2.7.0 Authentication successful",
		rcptReply: "250 2.1.5 OK",
		done:      make(chan struct{}),
	}
	t.Cleanup(func() { ln.Close() })
	return s
}

func (s *fakeSMTP) start() {
	go s.serve()
}

func (s *fakeSMTP) port() string {
	return portOf(s.ln)
}

func portOf(ln net.Listener) string {
	return strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
}

func (s *fakeSMTP) serve() {
	defer close(s.done)
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake.local ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			_ = tp.PrintfLine("500 empty command")
			continue
		}

		switch strings.ToUpper(fields[0]) {
		case "EHLO":
			_ = tp.PrintfLine("250-fake.local")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case "HELO":
			_ = tp.PrintfLine("250 fake.local")
		case "AUTH":
			s.mu.Lock()
			s.authLine = line
			s.mu.Unlock()
			_ = tp.PrintfLine("%s", s.authReply)
		case "MAIL":
			s.mu.Lock()
			s.mailFrom = line
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.1.0 OK")
		case "RCPT":
			s.mu.Lock()
			s.rcptTo = append(s.rcptTo, line)
			s.mu.Unlock()
			_ = tp.PrintfLine("%s", s.rcptReply)
		case "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = data
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 OK queued")
		case "QUIT":
			_ = tp.PrintfLine("221 2.0.0 Bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.2 command not recognized")
		}
	}
}

func testConfig(port string) *config.Config {
	return &config.Config{
		SMTPHost:       "127.0.0.1",
		SMTPPort:       port,
		SMTPUsername:   "relay@aurelixnutralab.com",
		SMTPPassword:   "secret",
		SMTPTimeoutSec: 5,
	}
}

func janeMessage() domain.OutboundMessage {
	return domain.OutboundMessage{
		From:    `"Jane Doe" <jane@example.com>`,
		ReplyTo: "jane@example.com",
		To:      "inbox@aurelixnutralab.com",
		Subject: "Contact Inquiry: Pricing",
		Text:    "Name: Jane Doe\nEmail: jane@example.com\nSubject: Pricing\n\nMessage:\nHi\nPlease send pricing.",
		HTML:    "<p>Hi<br>Please send pricing.</p>",
		Envelope: domain.Envelope{
			From: "relay@aurelixnutralab.com",
			To:   []string{"inbox@aurelixnutralab.com"},
		},
	}
}

func TestSMTPTransportSend(t *testing.T) {
	srv := startFakeSMTP(t)
	srv.start()

	transport := NewSMTPTransport(testConfig(srv.port()))
	require.True(t, transport.IsConfigured())

	receipt, err := transport.Send(context.Background(), janeMessage())
	require.NoError(t, err)
	<-srv.done

	srv.mu.Lock()
	defer srv.mu.Unlock()

	assert.True(t, strings.HasPrefix(srv.authLine, "AUTH PLAIN "), srv.authLine)
	assert.True(t, strings.HasPrefix(srv.mailFrom, "MAIL FROM:<relay@aurelixnutralab.com>"), srv.mailFrom)
	assert.Equal(t, []string{"RCPT TO:<inbox@aurelixnutralab.com>"}, srv.rcptTo)

	msg, err := mail.ReadMessage(bytes.NewReader(srv.data))
	require.NoError(t, err)

	assert.Equal(t, `"Jane Doe" <jane@example.com>`, msg.Header.Get("From"))
	assert.Equal(t, "jane@example.com", msg.Header.Get("Reply-To"))
	assert.Equal(t, "inbox@aurelixnutralab.com", msg.Header.Get("To"))
	assert.Equal(t, "Contact Inquiry: Pricing", msg.Header.Get("Subject"))
	assert.Equal(t, receipt.MessageID, msg.Header.Get("Message-ID"))
	assert.True(t, strings.HasSuffix(receipt.MessageID, "@aurelixnutralab.com>"), receipt.MessageID)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var parts []string
	var types []string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(p)
		require.NoError(t, err)
		types = append(types, p.Header.Get("Content-Type"))
		parts = append(parts, strings.ReplaceAll(string(b), "\r\n", "\n"))
	}

	require.Len(t, parts, 2)
	assert.Equal(t, []string{"text/plain; charset=UTF-8", "text/html; charset=UTF-8"}, types)
	assert.Equal(t, janeMessage().Text, parts[0])
	assert.Equal(t, janeMessage().HTML, parts[1])
}

func TestSMTPTransportAuthRejected(t *testing.T) {
	srv := startFakeSMTP(t)
	srv.authReply = "535 5.7.8 Authentication credentials invalid"
	srv.start()

	_, err := NewSMTPTransport(testConfig(srv.port())).Send(context.Background(), janeMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, FailureAuth, ClassifyError(err))
}

func TestSMTPTransportRecipientRejected(t *testing.T) {
	srv := startFakeSMTP(t)
	srv.rcptReply = "550 5.1.1 No such user"
	srv.start()

	_, err := NewSMTPTransport(testConfig(srv.port())).Send(context.Background(), janeMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, FailureRecipient, ClassifyError(err))
}

func TestSMTPTransportConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := portOf(ln)
	require.NoError(t, ln.Close())

	_, err = NewSMTPTransport(testConfig(port)).Send(context.Background(), janeMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, FailureNetwork, ClassifyError(err))
}

func TestSMTPTransportTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	// Accept and never greet.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(io.Discard, conn)
	}()

	transport := NewSMTPTransport(testConfig(portOf(ln)))
	transport.timeout = 200 * time.Millisecond

	start := time.Now()
	_, err = transport.Send(context.Background(), janeMessage())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, FailureTimeout, ClassifyError(err))
}

func TestSMTPTransportNotConfigured(t *testing.T) {
	transport := NewSMTPTransport(testConfig("2525"))

	msg := janeMessage()
	msg.Envelope.To = nil

	_, err := transport.Send(context.Background(), msg)
	assert.ErrorIs(t, err, domain.ErrEmailNotConfigured)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Equal(t, FailureConfig, ClassifyError(err))

	assert.False(t, NewSMTPTransport(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "465"}).IsConfigured())
}

func TestSMTPTransportMissingCredentials(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var accepted atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted.Add(1)
			conn.Close()
		}
	}()

	cases := map[string]func(c *config.Config){
		"no password": func(c *config.Config) { c.SMTPPassword = "" },
		"no username": func(c *config.Config) { c.SMTPUsername = "" },
		"no host":     func(c *config.Config) { c.SMTPHost = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(portOf(ln))
			mutate(cfg)
			transport := NewSMTPTransport(cfg)
			require.False(t, transport.IsConfigured())

			_, err := transport.Send(context.Background(), janeMessage())
			assert.ErrorIs(t, err, domain.ErrEmailNotConfigured)
			assert.Equal(t, FailureConfig, ClassifyError(err))
		})
	}

	assert.Zero(t, accepted.Load(), "relay must not be dialed")
}

func TestBuildMIMEEncodesSubject(t *testing.T) {
	msg := janeMessage()
	msg.Subject = "Contact Inquiry: Preise für Öl"

	raw, err := buildMIME(msg, "<id@example.com>", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	encoded := parsed.Header.Get("Subject")
	assert.True(t, strings.HasPrefix(encoded, "=?utf-8?q?"), encoded)

	decoded, err := new(mime.WordDecoder).DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, msg.Subject, decoded)
	assert.Equal(t, "Fri, 02 Jan 2026 03:04:05 +0000", parsed.Header.Get("Date"))
	assert.Equal(t, "1.0", parsed.Header.Get("MIME-Version"))
}

func TestNewMessageID(t *testing.T) {
	assert.True(t, strings.HasSuffix(newMessageID("relay@example.com", "smtp.host"), "@example.com>"))
	assert.True(t, strings.HasSuffix(newMessageID("relay", "smtp.host"), "@smtp.host>"))
	assert.NotEqual(t, newMessageID("a@b.c", "h"), newMessageID("a@b.c", "h"))
}
