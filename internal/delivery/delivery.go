// Package delivery defines the contract every transport front end fulfills.
package delivery

import "context"

// Delivery is a serving surface started by the application entrypoint.
// Serve blocks until the underlying listener stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
