// Package delivery defines the transport-facing entry points of the
// application.
package delivery

import "context"

// Delivery is a transport server the application can run. Serve blocks
// until the server stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
