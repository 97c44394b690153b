package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/cantinadev/cantina-backend/internal/logging"
	"github.com/cantinadev/cantina-backend/internal/mykafka"
	"github.com/cantinadev/cantina-backend/internal/service"
	"github.com/cantinadev/cantina-backend/internal/service/search"
	"github.com/cantinadev/cantina-backend/internal/transport"
	"github.com/cantinadev/cantina-backend/internal/util"
)

type AdminHandler struct {
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "dados incompletos. 'nome' e 'preco' são obrigatórios")
	}

	prod, err := h.Catalog.CreateProduct(ctx, req)
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return httpError(err)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	publish(c, h.Producer, "product_events", strconv.FormatUint(uint64(prod.ID), 10), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	h.reindex(c, prod.ID)

	return c.JSON(http.StatusCreated, prod)
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_products")

	items, err := h.Catalog.ListAllProducts(ctx)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("update_product_failed", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "nenhum dado fornecido para atualização")
	}

	prod, err := h.Catalog.PatchProduct(ctx, req, uint(id))
	if err != nil {
		l.Warn("update_product_failed", "id", id, "error", err)
		return httpError(err)
	}

	l.Info("update_product_success", "product_id", prod.ID)
	publish(c, h.Producer, "product_events", strconv.Itoa(id), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	h.reindex(c, prod.ID)

	return c.JSON(http.StatusOK, prod)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		l.Warn("delete_product_failed", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id inválido")
	}

	name, err := h.Catalog.DeleteProduct(ctx, uint(id))
	if err != nil {
		l.Warn("delete_product_failed", "id", id, "error", err)
		return httpError(err)
	}

	l.Info("delete_product_success", "product_id", id)
	publish(c, h.Producer, "product_events", strconv.Itoa(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	if h.ES != nil {
		if err := search.RemoveProduct(ctx, h.ES, h.ESIndex, uint(id)); err != nil {
			l.Warn("search_index_remove_failed", "id", id, "error", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"mensagem": fmt.Sprintf("Produto '%s' deletado com sucesso.", name),
	})
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "'nome' é obrigatório")
	}

	cat, err := h.Catalog.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("create_category_failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	limit := util.ParseIntDefault(c.QueryParam("limit"), 0)
	orders, err := h.Orders.ListOrders(ctx, limit)
	if err != nil {
		l.Error("list_orders_failed", "status", 500, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	code := c.Param("codigo")

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "novo 'status' é obrigatório")
	}

	status, err := h.Orders.UpdateStatus(ctx, code, req.Status)
	if err != nil {
		l.Warn("update_status_failed", "pickup_code", code, "error", err)
		return httpError(err)
	}

	l.Info("update_status_success", "pickup_code", code, "status", status)
	publish(c, h.Producer, "order_events", code, map[string]any{
		"type":        "order_status_changed",
		"pickup_code": code,
		"status":      status,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"mensagem": fmt.Sprintf("Status do pedido %s atualizado para %s.", code, status),
	})
}

func (h *AdminHandler) EarningsReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.earnings_report")

	report, err := h.Orders.DailyEarnings(ctx, c.QueryParam("data"))
	if err != nil {
		l.Warn("earnings_report_failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) reindex(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	prod, err := h.Catalog.Repo.GetProduct(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_load_failed", "id", id, "error", err)
		return
	}
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, prod); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "id", id, "error", err)
	}
}
