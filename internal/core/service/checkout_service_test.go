package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/logging"
	"github.com/rl1809/storefront/internal/metrics"
)

func validForm() *domain.AddressForm {
	return &domain.AddressForm{ShippingAddress: domain.ShippingAddress{
		Name:     "Asha",
		Phone:    "9999999999",
		Address1: "12 MG Road",
		City:     "Pune",
		State:    "MH",
		Pincode:  "411001",
	}}
}

type checkoutFixture struct {
	cart   *CartService
	store  *mockCartStore
	orders *mockOrderAPI
	svc    *CheckoutService
	m      *metrics.Metrics
}

func newCheckoutFixture(token string) *checkoutFixture {
	m := metrics.New()
	store := &mockCartStore{}
	cart := NewCartService(context.Background(), store, &mockSyncer{}, logging.Discard(), m)
	orders := &mockOrderAPI{}
	return &checkoutFixture{
		cart:   cart,
		store:  store,
		orders: orders,
		svc:    NewCheckoutService(cart, orders, mockTokens{token: token}, logging.Discard(), m),
		m:      m,
	}
}

func TestCheckoutService_PlaceOrderSuccess(t *testing.T) {
	f := newCheckoutFixture("tok")
	ctx := context.Background()
	f.cart.AddItem(ctx, domain.Product{ID: "p1", Title: "Bat", Price: 100})
	f.cart.AddItem(ctx, domain.Product{ID: "p1"})
	f.cart.AddItem(ctx, domain.Product{ID: "p2", Title: "Ball", Price: 49.99})
	form := validForm()

	order, err := f.svc.PlaceOrder(ctx, form)
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if order.ID != "order-1" {
		t.Errorf("unexpected order: %+v", order)
	}

	if len(f.orders.requests) != 1 {
		t.Fatalf("expected 1 order request, got %d", len(f.orders.requests))
	}
	req := f.orders.requests[0]
	if req.TotalAmount != 249.99 {
		t.Errorf("expected total 249.99, got %v", req.TotalAmount)
	}
	if len(req.Items) != 2 || req.Items[0].Quantity != 2 {
		t.Errorf("unexpected items: %+v", req.Items)
	}
	if req.ShippingAddress.City != "Pune" {
		t.Errorf("expected address sent, got %+v", req.ShippingAddress)
	}

	if f.cart.Count() != 0 {
		t.Errorf("expected cart cleared, got %d lines", f.cart.Count())
	}
	if got := f.store.Load(ctx); len(got) != 0 {
		t.Errorf("expected persisted cart cleared, got %+v", got)
	}
	if form.Address() != (domain.ShippingAddress{}) {
		t.Errorf("expected form reset, got %+v", form.Address())
	}
	if got := testutil.ToFloat64(f.m.OrderTotal.WithLabelValues(metrics.OrderPlaced)); got != 1 {
		t.Errorf("expected 1 placed order, got %v", got)
	}
}

func TestCheckoutService_FailureLeavesCartUntouched(t *testing.T) {
	f := newCheckoutFixture("tok")
	ctx := context.Background()
	f.cart.AddItem(ctx, domain.Product{ID: "p1", Price: 100})
	f.cart.IncreaseQuantity(ctx, "p1")
	before := f.cart.Cart()
	form := validForm()
	formBefore := form.Address()

	backendErr := errors.New("status 500")
	f.orders.err = backendErr

	_, err := f.svc.PlaceOrder(ctx, form)
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if !reflect.DeepEqual(f.cart.Cart(), before) {
		t.Errorf("cart changed on failure: %+v vs %+v", f.cart.Cart(), before)
	}
	if form.Address() != formBefore {
		t.Errorf("form changed on failure: %+v", form.Address())
	}
	if got := testutil.ToFloat64(f.m.OrderTotal.WithLabelValues(metrics.OrderFailed)); got != 1 {
		t.Errorf("expected 1 failed order, got %v", got)
	}
}

func TestCheckoutService_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		fill    bool
		form    *domain.AddressForm
		wantErr error
	}{
		{name: "not logged in", token: "", fill: true, form: validForm(), wantErr: ErrNotLoggedIn},
		{name: "empty cart", token: "tok", fill: false, form: validForm(), wantErr: ErrEmptyCart},
		{name: "missing address", token: "tok", fill: true, form: &domain.AddressForm{}, wantErr: domain.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(tt.token)
			if tt.fill {
				f.cart.AddItem(context.Background(), domain.Product{ID: "p1", Price: 10})
			}

			_, err := f.svc.PlaceOrder(context.Background(), tt.form)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.orders.requests) != 0 {
				t.Errorf("expected no backend call, got %d", len(f.orders.requests))
			}
			if tt.fill && f.cart.Count() != 1 {
				t.Errorf("expected cart kept, got %d lines", f.cart.Count())
			}
		})
	}
}
