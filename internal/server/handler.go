// Package server exposes the persisted product catalog over HTTP.
package server

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
	"github.com/AlexV384/PD-UVP211/internal/logging"
)

// ProductSource reads one site's persisted products.
type ProductSource interface {
	LoadAll(ctx context.Context) ([]catalog.PersistedProduct, error)
}

// Handler serves the product listing API over one or more site stores.
type Handler struct {
	sources []ProductSource
	log     *logging.Logger
}

func NewHandler(log *logging.Logger, sources ...ProductSource) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{sources: sources, log: log}
}

func (h *Handler) loadProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	for _, src := range h.sources {
		persisted, err := src.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range persisted {
			products = append(products, FromPersisted(p))
		}
	}
	return products, nil
}

// GetProducts handles GET /get_products: category (repeatable),
// min_price, max_price, search, sort, page. Responds with one page of 30
// plus the filtered total.
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.loadProducts(c.Request.Context())
	if err != nil {
		h.log.Error("loading products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	q := Query{
		Categories: c.QueryArray("category"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Page:       1,
	}
	// Malformed numbers fall back to the defaults, never to an error.
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		q.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		q.MaxPrice = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		q.Page = v
	}

	filtered := FilterSort(products, q)
	pageItems, total, totalPages := Paginate(filtered, q.Page)

	c.JSON(http.StatusOK, gin.H{
		"products":    pageItems,
		"total":       total,
		"total_pages": totalPages,
	})
}

// GetCategories handles GET /categories: the sorted distinct category
// list across all sites.
func (h *Handler) GetCategories(c *gin.Context) {
	products, err := h.loadProducts(c.Request.Context())
	if err != nil {
		h.log.Error("loading products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if _, dup := seen[p.Category]; dup {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
