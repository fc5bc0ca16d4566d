package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type SyncAPI interface {
	SyncCart(ctx context.Context, token string, cart domain.Cart) error
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error)
	ListMyOrders(ctx context.Context, token string) ([]domain.Order, error)
}
