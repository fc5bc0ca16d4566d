package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rl1809/storefront/internal/core/domain"
)

var testProducts = []domain.Product{
	{ID: "p1", Title: "English Willow Bat", Description: "Grade 1", Category: "Bats", Stock: 3},
	{ID: "p2", Title: "Leather Ball", Description: "Match ball, red", Category: "Balls", Stock: 0},
	{ID: "p3", Title: "Kashmir Willow Bat", Category: "Bats", Stock: 10},
	{ID: "p4", Title: "Batting Pads", Category: "Protection", Stock: 1},
}

func ids(products []domain.Product) []string {
	out := []string{}
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"all", "", AllCategories, []string{"p1", "p2", "p3", "p4"}},
		{"empty category", "", "", []string{"p1", "p2", "p3", "p4"}},
		{"search title", "willow", AllCategories, []string{"p1", "p3"}},
		{"search description", "RED", "", []string{"p2"}},
		{"category", "", "Bats", []string{"p1", "p3"}},
		{"search and category", "bat", "Protection", []string{"p4"}},
		{"no match", "helmet", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(testProducts, tt.search, tt.category))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.search, tt.category, got, tt.want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	got := Categories(testProducts)
	want := []string{AllCategories, "Bats", "Balls", "Protection"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
}

func TestCatalogService_List(t *testing.T) {
	svc := NewCatalogService(mockCatalogAPI{products: testProducts})
	got, err := svc.List(context.Background())
	if err != nil || len(got) != 4 {
		t.Fatalf("List = %d products, err %v", len(got), err)
	}

	boom := errors.New("connection refused")
	svc = NewCatalogService(mockCatalogAPI{err: boom})
	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestOrderHistoryService_MyOrders(t *testing.T) {
	orders := &mockOrderAPI{orders: []domain.Order{{ID: "o1"}, {ID: "o2"}}}

	svc := NewOrderHistoryService(orders, mockTokens{})
	if _, err := svc.MyOrders(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}

	svc = NewOrderHistoryService(orders, mockTokens{token: "tok"})
	got, err := svc.MyOrders(context.Background())
	if err != nil || len(got) != 2 {
		t.Errorf("MyOrders = %+v, err %v", got, err)
	}
}
