package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes activation messages to a slog logger instead of sending them.
// It is the fallback when neither SMTP nor Redis is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier writing to logger, or slog.Default() if nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// SendActivationCode logs the activation message. It never fails.
func (n *LogNotifier) SendActivationCode(ctx context.Context, to, code string) error {
	msg := ActivationMessage(to, code)
	n.logger.InfoContext(ctx, "activation message",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
