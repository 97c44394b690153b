package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID uint `json:"produto_id"`
	Quantity  int  `json:"quantidade"`
}

type CreateOrderRequest struct {
	CustomerID string             `json:"cliente_identificador"`
	Items      []OrderItemRequest `json:"itens"`
}

type CreateOrderResponse struct {
	Message    string          `json:"mensagem"`
	OrderID    uint            `json:"pedido_id"`
	PickupCode string          `json:"codigo_retirada"`
	Total      decimal.Decimal `json:"valor_total"`
	Status     string          `json:"status"`
}

type OrderItemView struct {
	ProductID   uint            `json:"produto_id"`
	ProductName string          `json:"produto_nome"`
	Quantity    uint            `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"preco_unitario_compra"`
}

type OrderView struct {
	ID         uint            `json:"id"`
	CustomerID *string         `json:"cliente_identificador,omitempty"`
	PickupCode string          `json:"codigo_retirada"`
	CreatedAt  time.Time       `json:"data_hora"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"valor_total"`
	Items      []OrderItemView `json:"itens"`
}

type CreateProductRequest struct {
	Name        string           `json:"nome"`
	Description string           `json:"descricao"`
	Price       *decimal.Decimal `json:"preco"`
	Category    string           `json:"categoria"`
	ImageURL    *string          `json:"imagem_url"`
	Available   *bool            `json:"disponivel"`
}

// PatchProductRequest carries only the fields present in the body;
// nil means "leave unchanged".
type PatchProductRequest struct {
	Name        *string          `json:"nome"`
	Description *string          `json:"descricao"`
	Price       *decimal.Decimal `json:"preco"`
	Category    *string          `json:"categoria"`
	ImageURL    *string          `json:"imagem_url"`
	Available   *bool            `json:"disponivel"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateCategoryRequest struct {
	Name string `json:"nome"`
}

type EarningsReport struct {
	Date       string          `json:"data_consulta"`
	Total      decimal.Decimal `json:"total_ganhos"`
	OrderCount int64           `json:"quantidade_pedidos_no_dia"`
}
