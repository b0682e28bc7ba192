package sale

import (
	"context"

	"github.com/storepulse/storepulse/internal/types"
)

// Repository is the read side of the sales store used by the analytics engine.
type Repository interface {
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error

	// List returns sales matching filter ordered by creation time. Items are
	// loaded with their product, which is nil for removed products.
	List(ctx context.Context, filter *types.SaleFilter) ([]*Sale, error)

	// GetTimeBounds returns the oldest and newest sale times, optionally for one user
	GetTimeBounds(ctx context.Context, userID string) (*TimeBounds, error)
}
