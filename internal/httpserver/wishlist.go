package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *handlers) getWishlist(c *gin.Context) {
	view, err := h.deps.WishlistSvc.Get(c.Request.Context(), viewerFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) addWishlistItem(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "productId required")
		return
	}
	view, err := h.deps.WishlistSvc.Add(c.Request.Context(), viewerFrom(c), req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) wishlistContains(c *gin.Context) {
	productID := c.Param("productId")
	ok, err := h.deps.WishlistSvc.Contains(c.Request.Context(), viewerFrom(c), productID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "wishlisted": ok})
}

func (h *handlers) removeWishlistItem(c *gin.Context) {
	view, err := h.deps.WishlistSvc.Remove(c.Request.Context(), viewerFrom(c), c.Param("productId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
