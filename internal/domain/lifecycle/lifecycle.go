// Package lifecycle holds process lifecycle constants shared by the
// delivery layers.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of servers and subscriptions.
const DefaultTimeout = 10 * time.Second
