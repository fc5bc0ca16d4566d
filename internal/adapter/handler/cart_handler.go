package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type Handler struct {
	cart     *service.CartService
	checkout *service.CheckoutService
	catalog  *service.CatalogService
	history  *service.OrderHistoryService
}

func NewHandler(cart *service.CartService, checkout *service.CheckoutService, catalog *service.CatalogService, history *service.OrderHistoryService) *Handler {
	return &Handler{cart: cart, checkout: checkout, catalog: catalog, history: history}
}

type CartView struct {
	Items domain.Cart `json:"items"`
	Total string      `json:"total"`
	Count int         `json:"count"`
}

func NewCartView(cart domain.Cart) CartView {
	if cart == nil {
		cart = domain.Cart{}
	}
	return CartView{
		Items: cart,
		Total: domain.FormatAmount(cart.Total()),
		Count: len(cart),
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	cart := h.cart.Cart()
	if q := c.Query("search"); q != "" {
		cart = cart.Search(q)
	}
	c.JSON(http.StatusOK, NewCartView(cart))
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "details": err.Error()})
		return
	}

	h.cart.AddItem(c.Request.Context(), req.Product.toDomain())
	c.JSON(http.StatusOK, NewCartView(h.cart.Cart()))
}

func (h *Handler) IncreaseItem(c *gin.Context) {
	h.cart.IncreaseQuantity(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, NewCartView(h.cart.Cart()))
}

func (h *Handler) DecreaseItem(c *gin.Context) {
	h.cart.DecreaseQuantity(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, NewCartView(h.cart.Cart()))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	h.cart.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, NewCartView(h.cart.Cart()))
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, NewCartView(h.cart.Cart()))
}

// CartEvents streams a "cart" event with the full view on every change,
// starting with the current state.
func (h *Handler) CartEvents(c *gin.Context) {
	updates, unsubscribe := h.cart.Subscribe()
	defer unsubscribe()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case cart, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("cart", NewCartView(cart))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
