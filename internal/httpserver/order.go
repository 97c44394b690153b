package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cantinadev/cantina-backend/internal/logging"
	"github.com/cantinadev/cantina-backend/internal/mykafka"
	"github.com/cantinadev/cantina-backend/internal/service"
	"github.com/cantinadev/cantina-backend/internal/transport"
)

type OrderHandler struct {
	Orders   *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "dados incompletos ou formato inválido. 'itens' (lista não vazia) é obrigatório")
	}

	order, err := h.Orders.PlaceOrder(ctx, req)
	if err != nil {
		l.Warn("create_order_failed", "error", err)
		return httpError(err)
	}

	l.Info("create_order_success", "order_id", order.ID, "pickup_code", order.PickupCode)
	publish(c, h.Producer, "order_events", order.PickupCode, map[string]any{
		"type":        "order_created",
		"orderID":     order.ID,
		"pickup_code": order.PickupCode,
		"total":       order.Total,
		"item_count":  len(order.Items),
	})

	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{
		Message:    "Pedido realizado com sucesso!",
		OrderID:    order.ID,
		PickupCode: order.PickupCode,
		Total:      order.Total,
		Status:     order.Status,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	code := c.Param("codigo")
	order, err := h.Orders.GetOrderByCode(ctx, code)
	if err != nil {
		l.Warn("get_order_failed", "pickup_code", code, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_my_orders")

	customerID := c.Param("cliente_id")
	orders, err := h.Orders.ListCustomerOrders(ctx, customerID)
	if err != nil {
		l.Error("list_my_orders_failed", "status", 500, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}
