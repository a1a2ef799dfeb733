// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a server that accepts traffic until its context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
