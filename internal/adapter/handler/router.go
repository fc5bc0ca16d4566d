package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/storefront/internal/metrics"
)

func NewRouter(h *Handler, log *slog.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Metrics(m), Logging(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/orders", h.ListOrders)

		api.GET("/cart", h.GetCart)
		api.DELETE("/cart", h.ClearCart)
		api.GET("/cart/events", h.CartEvents)
		api.POST("/cart/items", h.AddItem)
		api.POST("/cart/items/:id/increase", h.IncreaseItem)
		api.POST("/cart/items/:id/decrease", h.DecreaseItem)
		api.DELETE("/cart/items/:id", h.RemoveItem)

		api.POST("/checkout", h.Checkout)
	}

	return r
}
