package service

import (
	"context"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type OrderHistoryService struct {
	orders port.OrderAPI
	tokens port.TokenSource
}

func NewOrderHistoryService(orders port.OrderAPI, tokens port.TokenSource) *OrderHistoryService {
	return &OrderHistoryService{orders: orders, tokens: tokens}
}

func (s *OrderHistoryService) MyOrders(ctx context.Context) ([]domain.Order, error) {
	token, ok := s.tokens.Token(ctx)
	if !ok {
		return nil, ErrNotLoggedIn
	}
	orders, err := s.orders.ListMyOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return orders, nil
}
