package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	KindDepositCompleted    = "deposit_completed"
	KindWithdrawalCompleted = "withdrawal_completed"
	KindWithdrawalFailed    = "withdrawal_failed"
	KindCardCreated         = "card_created"
	KindCardFrozen          = "card_frozen"
	KindCardUnfrozen        = "card_unfrozen"
	KindCardDeleted         = "card_deleted"

	LevelSuccess = "success"
	LevelError   = "error"
)

// Message describes a user-facing notification, the server side of a dashboard toast.
type Message struct {
	Kind       string    `json:"kind"`
	Level      string    `json:"level"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if message.Level == LevelError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "notification",
		slog.String("kind", message.Kind),
		slog.String("level", message.Level),
		slog.String("body", message.Body),
	)
	return nil
}

// Fanout sends every message to all wrapped notifiers and joins their errors.
type Fanout []Notifier

// Send delivers the message to each notifier, continuing past failures.
func (f Fanout) Send(ctx context.Context, message Message) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
