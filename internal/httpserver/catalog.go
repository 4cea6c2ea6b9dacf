package httpserver

import (
	"net/http"
	"strings"

	productsvc "storefront/internal/service/product"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productQuery struct {
	Search    string  `schema:"search"`
	Category  string  `schema:"category"`
	MinPrice  string  `schema:"minPrice"`
	MaxPrice  string  `schema:"maxPrice"`
	MinRating float64 `schema:"minRating"`
	Tags      string  `schema:"tags"`
	OnOffer   bool    `schema:"onOffer"`
	InStock   bool    `schema:"inStock"`
	Sort      string  `schema:"sort"`
}

func (q productQuery) toQuery() (productsvc.Query, error) {
	out := productsvc.Query{
		Search:    q.Search,
		Category:  q.Category,
		MinRating: q.MinRating,
		OnOffer:   q.OnOffer,
		InStock:   q.InStock,
		Sort:      q.Sort,
	}
	var err error
	if out.MinPrice, err = optionalDecimal(q.MinPrice); err != nil {
		return out, err
	}
	if out.MaxPrice, err = optionalDecimal(q.MaxPrice); err != nil {
		return out, err
	}
	for _, tag := range strings.Split(q.Tags, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			out.Tags = append(out.Tags, t)
		}
	}
	return out, nil
}

func optionalDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func (h *handlers) listProducts(c *gin.Context) {
	var raw productQuery
	if err := h.decoder.Decode(&raw, c.Request.URL.Query()); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}
	q, err := raw.toQuery()
	if err != nil {
		badRequest(c, "invalid price filter")
		return
	}
	products, err := h.deps.ProductSvc.List(c.Request.Context(), viewerFrom(c), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(products), "results": products})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) productStats(c *gin.Context) {
	stats, err := h.deps.ProductSvc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "results": categories})
}
