package httpserver

import (
	"net/http"

	ordersvc "storefront/internal/service/order"

	"github.com/gin-gonic/gin"
)

type orderListQuery struct {
	Status    string `schema:"status"`
	OrderType string `schema:"orderType"`
	Limit     int    `schema:"limit"`
	Offset    int    `schema:"offset"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.deps.OrderSvc.Get(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) myOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.ListForViewer(c.Request.Context(), viewerFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": orders})
}

func (h *handlers) adminListOrders(c *gin.Context) {
	var q orderListQuery
	if err := h.decoder.Decode(&q, c.Request.URL.Query()); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	orders, err := h.deps.OrderSvc.List(c.Request.Context(), ordersvc.ListParams(q))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": orders})
}

func (h *handlers) orderStats(c *gin.Context) {
	stats, err := h.deps.OrderSvc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status required")
		return
	}
	o, err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
