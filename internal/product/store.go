package product

import (
	"context"
	"time"
)

// Store describes persistence for the catalog and the consumption log.
type Store interface {
	CreateProduct(ctx context.Context, p *Product) error
	FindProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	// SearchProducts matches query against title and categories, excluding
	// products flagged not-allowed for the blood type.
	SearchProducts(ctx context.Context, query string, bloodType int) ([]*Product, error)
	// NotAllowedForBlood lists products flagged not-allowed for the blood type.
	NotAllowedForBlood(ctx context.Context, bloodType int) ([]*Product, error)

	CreateIntake(ctx context.Context, intake *DailyIntake) error

	CreateConsumed(ctx context.Context, c *ConsumedProduct) error
	FindConsumed(ctx context.Context, id string) (*ConsumedProduct, error)
	DeleteConsumed(ctx context.Context, id string) error
	// ListConsumed returns entries for a user with date in [from, to).
	ListConsumed(ctx context.Context, userID string, from, to time.Time) ([]*ConsumedProduct, error)
}
