// Package broker abstracts the trading gateway. Order submission is
// fire-and-forget: acks, fills, and rejections come back asynchronously on
// the callback interface, mirroring how the production counter behaves.
package broker

import (
	"github.com/silverfox-lab/silverfox/internal/types"
)

// Gateway is the order and account surface of the broker connection.
type Gateway interface {
	// SubmitOrder hands an order to the counter. A nil error only means
	// the order left the process; the outcome arrives via Callbacks.
	SubmitOrder(order types.ExecuteOrder) error
	// QueryPositions returns the current position snapshot.
	QueryPositions() ([]types.Position, error)
	// QueryCash returns the cash available for new purchases.
	QueryCash() (float64, error)
}

// Callbacks receives asynchronous broker events. Implementations must be
// safe for concurrent invocation; the gateway calls from its own goroutines.
type Callbacks struct {
	OnFill         func(fill types.Fill)
	OnOrderFailure func(failure types.OrderFailure)
	OnOrderAck     func(orderID string)
}

// Notifier pushes operator-facing messages (fills, rejections, daily
// summaries) to an external channel.
type Notifier interface {
	Notify(tag, message string) error
}
