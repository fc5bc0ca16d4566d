package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/metrics"
	"github.com/rl1809/storefront/internal/port"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrEmptyCart   = errors.New("cart is empty")
)

type CheckoutService struct {
	cart    *CartService
	orders  port.OrderAPI
	tokens  port.TokenSource
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewCheckoutService(cart *CartService, orders port.OrderAPI, tokens port.TokenSource, log *slog.Logger, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{cart: cart, orders: orders, tokens: tokens, log: log, metrics: m}
}

// PlaceOrder submits the current cart with the address in form. The cart is
// cleared and the form reset only after the backend confirms the order; on
// any error both are left as they were.
func (s *CheckoutService) PlaceOrder(ctx context.Context, form *domain.AddressForm) (*domain.Order, error) {
	token, ok := s.tokens.Token(ctx)
	if !ok {
		s.metrics.Order(metrics.OrderRejected)
		return nil, ErrNotLoggedIn
	}

	cart := s.cart.Cart()
	if len(cart) == 0 {
		s.metrics.Order(metrics.OrderRejected)
		return nil, ErrEmptyCart
	}

	addr := form.Address()
	if err := addr.Validate(); err != nil {
		s.metrics.Order(metrics.OrderRejected)
		return nil, err
	}

	req := domain.NewOrderRequest(cart, addr)
	order, err := s.orders.CreateOrder(ctx, token, req)
	if err != nil {
		s.metrics.Order(metrics.OrderFailed)
		s.log.Error("order failed", "error", err, "lines", len(cart))
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.cart.Clear(ctx)
	form.Reset()

	s.metrics.Order(metrics.OrderPlaced)
	s.log.Info("order placed", "order_id", order.ID, "total", req.TotalAmount, "lines", len(cart))
	return order, nil
}
