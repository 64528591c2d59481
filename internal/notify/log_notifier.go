// Package notify provides Notifier implementations. Actual mail
// delivery is owned by an external collaborator; the implementations
// here are the fire-and-forget boundary the order core talks to.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arkivdk/readingroom/internal/domain"
)

// LogNotifier records every outbound message in the structured log,
// tagged with a generated dispatch id. It is the default Notifier for
// the CLI and for environments without a mail relay.
type LogNotifier struct {
	Log zerolog.Logger
}

// Send logs the message instead of delivering it. It never fails.
func (n LogNotifier) Send(ctx context.Context, title, body string, order *domain.OrderView) error {
	n.Log.Info().
		Str("dispatch_id", uuid.NewString()).
		Int64("order_id", order.OrderID).
		Str("record_id", order.RecordID).
		Str("email", order.Email).
		Str("title", title).
		Str("body", body).
		Msg("notification dispatched")
	return nil
}
