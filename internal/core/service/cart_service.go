package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/metrics"
	"github.com/rl1809/storefront/internal/port"
)

// CartSyncer is the remote side effect of a cart mutation.
type CartSyncer interface {
	Trigger(cart domain.Cart)
	Close()
}

// CartService owns the in-memory cart. Each mutation is applied under one
// lock, written through to the store, handed to the syncer and published to
// subscribers before it returns.
type CartService struct {
	store   port.CartStore
	syncer  CartSyncer
	log     *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	cart    domain.Cart
	subs    map[int]chan domain.Cart
	nextSub int
	closed  bool
}

func NewCartService(ctx context.Context, store port.CartStore, syncer CartSyncer, log *slog.Logger, m *metrics.Metrics) *CartService {
	cart := store.Load(ctx)
	m.Lines(len(cart))
	log.Info("cart loaded", "lines", len(cart))
	return &CartService{
		store:   store,
		syncer:  syncer,
		log:     log,
		metrics: m,
		cart:    cart,
		subs:    make(map[int]chan domain.Cart),
	}
}

func (s *CartService) AddItem(ctx context.Context, product domain.Product) {
	s.apply(ctx, "add", product.ID, func(c domain.Cart) domain.Cart { return c.Add(product) })
}

func (s *CartService) IncreaseQuantity(ctx context.Context, productID string) {
	s.apply(ctx, "increase", productID, func(c domain.Cart) domain.Cart { return c.Increase(productID) })
}

func (s *CartService) DecreaseQuantity(ctx context.Context, productID string) {
	s.apply(ctx, "decrease", productID, func(c domain.Cart) domain.Cart { return c.Decrease(productID) })
}

func (s *CartService) RemoveItem(ctx context.Context, productID string) {
	s.apply(ctx, "remove", productID, func(c domain.Cart) domain.Cart { return c.Remove(productID) })
}

func (s *CartService) Clear(ctx context.Context) {
	s.apply(ctx, "clear", "", func(domain.Cart) domain.Cart { return domain.Cart{} })
}

func (s *CartService) apply(ctx context.Context, op, productID string, mutate func(domain.Cart) domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = mutate(s.cart)
	snapshot := s.cart.Clone()

	if err := s.store.Save(ctx, snapshot); err != nil {
		s.log.Error("cart persist failed", "op", op, "error", err)
	}
	if len(snapshot) > 0 {
		s.syncer.Trigger(snapshot)
	}
	s.publish(snapshot)

	s.metrics.Lines(len(snapshot))
	s.log.Debug("cart updated", "op", op, "product_id", productID, "lines", len(snapshot))
}

func (s *CartService) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *CartService) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Count is the number of distinct lines, as shown on the cart badge.
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart)
}

func (s *CartService) Search(term string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Search(term)
}

// Subscribe returns a channel that always holds the latest cart snapshot,
// starting with the current one. A slow reader only ever misses intermediate
// states. The returned func unsubscribes and closes the channel.
func (s *CartService) Subscribe() (<-chan domain.Cart, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.Cart, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.cart.Clone()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// publish must be called with s.mu held.
func (s *CartService) publish(snapshot domain.Cart) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot.Clone()
	}
}

// Close releases subscribers and stops the syncer.
func (s *CartService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.syncer.Close()
}
