package notification

import (
	"context"
	"log/slog"
)

const (
	// KindWithdrawalRejected is sent when a withdrawal would have overdrawn an account.
	KindWithdrawalRejected = "withdrawal_rejected"
	// KindInterestPaid is sent after interest is credited.
	KindInterestPaid = "interest_paid"
)

// Message describes a notification payload.
type Message struct {
	Kind          string
	AccountNumber string
	Code          string
	Body          string
}

// Notifier delivers notifications to account holders.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger instead of
// delivering them.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send logs the message.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.InfoContext(ctx, "notification",
		slog.String("kind", message.Kind),
		slog.String("account_number", message.AccountNumber),
		slog.String("code", message.Code),
		slog.String("body", message.Body),
	)
	return nil
}
