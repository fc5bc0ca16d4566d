package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	CartKey  = "cartItems"
	TokenKey = "token"
)

type CartStore struct {
	repo port.StateRepository
	log  *slog.Logger
}

func NewCartStore(repo port.StateRepository, log *slog.Logger) *CartStore {
	return &CartStore{repo: repo, log: log}
}

// Load never fails: a missing, unreadable or malformed value is an empty cart.
func (s *CartStore) Load(ctx context.Context) domain.Cart {
	raw, ok, err := s.repo.Get(ctx, CartKey)
	if err != nil {
		s.log.Warn("cart load failed, starting empty", "error", err)
		return domain.Cart{}
	}
	if !ok || raw == "" {
		return domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.log.Warn("persisted cart malformed, starting empty", "error", err)
		return domain.Cart{}
	}
	clean, dropped := normalize(cart)
	if dropped > 0 {
		s.log.Warn("persisted cart had invalid lines, repaired", "dropped", dropped, "lines", len(clean))
	}
	return clean
}

// normalize restores one line per product with quantity >= 1. Lines without
// an id or with a non-positive quantity are dropped; repeated ids are merged
// into the first line, keeping its snapshot. dropped counts removed lines.
func normalize(cart domain.Cart) (domain.Cart, int) {
	out := make(domain.Cart, 0, len(cart))
	pos := make(map[string]int, len(cart))
	dropped := 0
	for _, l := range cart {
		if l.ProductID == "" || l.Quantity < 1 {
			dropped++
			continue
		}
		if i, ok := pos[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			dropped++
			continue
		}
		pos[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, dropped
}

func (s *CartStore) Save(ctx context.Context, cart domain.Cart) error {
	if cart == nil {
		cart = domain.Cart{}
	}
	b, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.repo.Set(ctx, CartKey, string(b)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

var _ port.CartStore = (*CartStore)(nil)

// TokenStore reads the bearer token written by the login flow.
type TokenStore struct {
	repo port.StateRepository
	log  *slog.Logger
}

func NewTokenStore(repo port.StateRepository, log *slog.Logger) *TokenStore {
	return &TokenStore{repo: repo, log: log}
}

func (s *TokenStore) Token(ctx context.Context) (string, bool) {
	tok, ok, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn("token read failed, treating as logged out", "error", err)
		return "", false
	}
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, TokenKey, token)
}

func (s *TokenStore) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}

var _ port.TokenSource = (*TokenStore)(nil)
