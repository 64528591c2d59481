// Package services – notification contract. Outbound mail delivery is
// an external collaborator; the core only decides when a message is
// due and records that it was dispatched.
package services

import (
	"context"
	"fmt"

	"github.com/arkivdk/readingroom/internal/domain"
)

// Notifier dispatches a message to the order's owner. Implementations
// are fire-and-forget from the core's point of view: they must not
// require a transaction, and a returned error fails the surrounding
// operation without being retried here.
type Notifier interface {
	Send(ctx context.Context, title, body string, order *domain.OrderView) error
}

// Notification texts. The ready message fires once per order when it
// becomes ordered with the record in the reading room.
const (
	mailReadyTitle = "Your order is ready for viewing"
	mailReadyBody  = "Your order is now ready for viewing in the reading room."

	mailRenewalTitle = "Renewal of your order"
)

// renewalBody builds the reminder text with the number of days left
// and a link to the patron's active orders.
func renewalBody(days int, clientURL string) string {
	if clientURL == "" {
		return fmt.Sprintf("Your order reaches its deadline in %d days.", days)
	}
	return fmt.Sprintf("Your order reaches its deadline in %d days.\nRenew your material at %s/auth/orders/active", days, clientURL)
}
