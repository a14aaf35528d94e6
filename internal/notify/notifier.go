// Package notify delivers emitted picks to the configured channel.
// Formatting and delivery retries live here; the monitor only decides
// what to send.
package notify

import (
	"context"

	"github.com/sells-group/pickwatch/internal/model"
)

// Notifier delivers one run's emitted picks. An empty pick slice is a
// status-only notification.
type Notifier interface {
	Notify(ctx context.Context, report model.RunReport, picks []model.Pick) error
}

// Noop discards notifications. Used when no webhook is configured.
type Noop struct{}

func (Noop) Notify(context.Context, model.RunReport, []model.Pick) error { return nil }
