package service

import (
	"context"
	"sync"

	"github.com/rl1809/storefront/internal/core/domain"
)

// Mock CartStore; Load returns the last saved cart
type mockCartStore struct {
	mu    sync.Mutex
	cart  domain.Cart
	saves int
	err   error
}

func (m *mockCartStore) Load(ctx context.Context) domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return domain.Cart{}
	}
	return m.cart.Clone()
}

func (m *mockCartStore) Save(ctx context.Context, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.err != nil {
		return m.err
	}
	m.cart = cart.Clone()
	return nil
}

// Mock CartSyncer
type mockSyncer struct {
	mu       sync.Mutex
	triggers []domain.Cart
	closed   bool
}

func (m *mockSyncer) Trigger(cart domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, cart)
}

func (m *mockSyncer) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockSyncer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.triggers)
}

// Mock TokenSource
type mockTokens struct {
	token string
}

func (m mockTokens) Token(ctx context.Context) (string, bool) {
	return m.token, m.token != ""
}

// Mock SyncAPI
type mockSyncAPI struct {
	mu      sync.Mutex
	calls   []domain.Cart
	tokens  []string
	err     error
	started chan struct{}
	release chan struct{}
	done    chan struct{}
}

func newMockSyncAPI() *mockSyncAPI {
	return &mockSyncAPI{done: make(chan struct{}, 100)}
}

func (m *mockSyncAPI) SyncCart(ctx context.Context, token string, cart domain.Cart) error {
	m.mu.Lock()
	m.calls = append(m.calls, cart)
	m.tokens = append(m.tokens, token)
	err := m.err
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	m.done <- struct{}{}
	return err
}

func (m *mockSyncAPI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Mock OrderAPI
type mockOrderAPI struct {
	mu       sync.Mutex
	requests []domain.OrderRequest
	order    *domain.Order
	orders   []domain.Order
	err      error
}

func (m *mockOrderAPI) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.order != nil {
		return m.order, nil
	}
	return &domain.Order{ID: "order-1", Status: domain.OrderStatusPending, TotalAmount: req.TotalAmount}, nil
}

func (m *mockOrderAPI) ListMyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.orders, nil
}

// Mock CatalogAPI
type mockCatalogAPI struct {
	products []domain.Product
	err      error
}

func (m mockCatalogAPI) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return m.products, m.err
}
