package email

import (
	"context"
	"errors"
	"net"
	"net/textproto"

	"contact-relay-backend/internal/domain"
)

// SMTP transaction stages.
const (
	StageConnect = "connect"
	StageTLS     = "tls"
	StageAuth    = "auth"
	StageMail    = "mail"
	StageRcpt    = "rcpt"
	StageData    = "data"
)

// Failure classes reported in logs. Clients only ever see the generic
// delivery message.
const (
	FailureConfig    = "config"
	FailureTimeout   = "timeout"
	FailureNetwork   = "network"
	FailureAuth      = "auth"
	FailureSender    = "sender"
	FailureRecipient = "recipient"
	FailureProtocol  = "protocol"
	FailureUnknown   = "unknown"
)

// StageError records which step of the SMTP transaction failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return "smtp " + e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ClassifyError maps a delivery error to one of the Failure* classes so
// operators can alert on auth problems separately from network ones.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrEmailNotConfigured) {
		return FailureConfig
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var tpErr *textproto.Error
	hasReply := errors.As(err, &tpErr)
	if hasReply && (tpErr.Code == 530 || tpErr.Code == 534 || tpErr.Code == 535) {
		return FailureAuth
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case StageConnect, StageTLS:
			return FailureNetwork
		case StageAuth:
			return FailureAuth
		case StageMail:
			return FailureSender
		case StageRcpt:
			return FailureRecipient
		default:
			return FailureProtocol
		}
	}
	if hasReply {
		return FailureProtocol
	}
	return FailureUnknown
}
