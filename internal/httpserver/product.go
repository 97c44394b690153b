package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/cantinadev/cantina-backend/internal/logging"
	"github.com/cantinadev/cantina-backend/internal/mykafka"
	"github.com/cantinadev/cantina-backend/internal/service"
	"github.com/cantinadev/cantina-backend/internal/service/search"
	"github.com/cantinadev/cantina-backend/internal/util"
)

// ProductHandler serves the public catalog. ES is optional: when nil,
// search queries go through the repo's LIKE filter.
type ProductHandler struct {
	Catalog *service.CatalogService
	ES      *elasticsearch.Client
	ESIndex string
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	category := c.QueryParam("categoria")
	term := c.QueryParam("busca")

	if h.ES != nil && term != "" && category == "" {
		page := util.ParseIntDefault(c.QueryParam("page"), 1)
		size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
		from, limit := util.Calculate(page, size)

		_, items, err := search.Search(ctx, h.ES, h.ESIndex, term, from, limit)
		if err == nil {
			l.Info("get_products_success", "source", "elasticsearch", "count", len(items))
			return c.JSON(http.StatusOK, items)
		}
		// ES being down must not break catalog browsing.
		l.Warn("search_fallback", "error", err)
	}

	items, err := h.Catalog.ListAvailableProducts(ctx, category, term)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return httpError(err)
	}

	l.Info("get_products_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	product, err := h.Catalog.GetPublicProduct(ctx, uint(id))
	if err != nil {
		l.Warn("get_product_failed", "status", 404, "id", id, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_categories")

	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		l.Error("get_categories_failed", "status", 500, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

// publish sends a domain event without blocking the response for long;
// failures are logged, never surfaced.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
