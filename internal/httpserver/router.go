package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/cantinadev/cantina-backend/internal/middleware/auth"
)

type Deps struct {
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
	AdminAPIKey    string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.GET("/produtos", d.ProductHandler.GetProducts)
	e.GET("/produtos/:id", d.ProductHandler.GetProduct)
	e.GET("/categorias", d.ProductHandler.GetCategories)

	e.POST("/pedidos", d.OrderHandler.CreateOrder)
	e.GET("/pedidos/:codigo", d.OrderHandler.GetOrder)
	e.GET("/meus-pedidos/:cliente_id", d.OrderHandler.ListMyOrders)

	admin := e.Group("/admin", auth.AdminOnly(d.AdminAPIKey))

	admin.POST("/produtos", d.AdminHandler.CreateProduct)
	admin.GET("/produtos", d.AdminHandler.ListProducts)
	admin.PUT("/produtos/:id", d.AdminHandler.UpdateProduct)
	admin.DELETE("/produtos/:id", d.AdminHandler.DeleteProduct)

	admin.POST("/categorias", d.AdminHandler.CreateCategory)

	admin.GET("/pedidos", d.AdminHandler.ListOrders)
	admin.PUT("/pedidos/:codigo/status", d.AdminHandler.UpdateOrderStatus)
	admin.GET("/relatorios/ganhos", d.AdminHandler.EarningsReport)
}
