package mailer

import (
	"context"

	"github.com/pharmstack/pharmacy-backend/pkg/logger"
)

// LogNotifier logs messages instead of delivering them. It stands in for the
// SendGrid mailer in dev environments that have no mail credentials.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-only notifier.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	ctx = n.logg.WithFields(ctx, map[string]any{
		"to":      to,
		"subject": subject,
	})
	n.logg.Info(ctx, "mail delivery disabled, message logged only")
	return nil
}
