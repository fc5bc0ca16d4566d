package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/logging"
)

func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	form := &domain.AddressForm{ShippingAddress: req.Address.toDomain()}
	order, err := h.checkout.PlaceOrder(ctx, form)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, service.ErrNotLoggedIn):
			status = http.StatusUnauthorized
		case errors.Is(err, service.ErrEmptyCart), errors.Is(err, domain.ErrInvalidAddress):
			status = http.StatusBadRequest
		}
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logging.From(c).Info("checkout complete", "order_id", order.ID)
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, err := h.catalog.List(ctx)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   service.Filter(products, c.Query("search"), c.Query("category")),
		"categories": service.Categories(products),
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.history.MyOrders(ctx)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrNotLoggedIn) {
			status = http.StatusUnauthorized
		}
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
