package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	productsPath = "/api/products"
	cartSyncPath = "/api/cart/sync"
	ordersPath   = "/api/orders"
	myOrdersPath = "/api/orders/my"

	errorBodyLimit = 512
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the storefront REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, productsPath, "", nil, &raw); err != nil {
		return nil, err
	}
	// anything other than an array is treated as an empty catalog
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		c.log.Warn("products response is not a list", "error", err)
		return []domain.Product{}, nil
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		var p domain.Product
		if err := json.Unmarshal(rec, &p); err != nil {
			c.log.Warn("skipping undecodable product", "index", i, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

type syncRequest struct {
	Items domain.Cart `json:"items"`
}

func (c *Client) SyncCart(ctx context.Context, token string, cart domain.Cart) error {
	return c.do(ctx, http.MethodPost, cartSyncPath, token, syncRequest{Items: cart}, nil)
}

func (c *Client) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, ordersPath, token, req, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

func (c *Client) ListMyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, myOrdersPath, token, nil, &raw); err != nil {
		return nil, err
	}

	var env struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Orders == nil {
			env.Orders = []domain.Order{}
		}
		return env.Orders, nil
	}
	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// decodeOrder accepts the created order either bare or wrapped in {"order": ...}.
func decodeOrder(raw json.RawMessage) (*domain.Order, error) {
	var env struct {
		Order *domain.Order `json:"order"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Order != nil {
		return env.Order, nil
	}
	var order domain.Order
	if len(raw) == 0 {
		return &order, nil
	}
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api call",
		"req_id", reqID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"dur_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var (
	_ port.CatalogAPI = (*Client)(nil)
	_ port.SyncAPI    = (*Client)(nil)
	_ port.OrderAPI   = (*Client)(nil)
)
