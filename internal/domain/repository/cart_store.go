package repository

import (
	"context"

	"github.com/sangkips/tablepos-api/internal/domain/cart"
)

// CartStore keeps one open cart per terminal
type CartStore interface {
	// Load returns the terminal's cart, or an empty cart when none is stored
	Load(ctx context.Context, terminalID string) (*cart.Cart, error)
	Save(ctx context.Context, terminalID string, c *cart.Cart) error
	Delete(ctx context.Context, terminalID string) error
}
