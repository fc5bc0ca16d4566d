package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CartStore interface {
	// Load returns the persisted cart, or an empty cart when none is usable
	Load(ctx context.Context) domain.Cart

	// Save writes the full cart
	Save(ctx context.Context, cart domain.Cart) error
}

type TokenSource interface {
	// Token returns the bearer token and false when the user is not logged in
	Token(ctx context.Context) (string, bool)
}
