package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status values stored on pedidos. UpdateStatus validates against this
// set before writing.
const (
	StatusPendente   = "PENDENTE"
	StatusPreparando = "PREPARANDO"
	StatusPronto     = "PRONTO"
	StatusEntregue   = "ENTREGUE"
	StatusCancelado  = "CANCELADO"
)

var AllowedStatuses = []string{
	StatusPendente,
	StatusPreparando,
	StatusPronto,
	StatusEntregue,
	StatusCancelado,
}

func StatusAllowed(s string) bool {
	for _, allowed := range AllowedStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string          `gorm:"not null"                    json:"nome"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"preco"`
	Category    string          `gorm:"default:Geral"               json:"categoria"`
	ImageURL    *string         `json:"imagem_url"`
	// no gorm default here: a default:true tag would override an
	// explicit false on create
	Available bool `json:"disponivel"`
}

func (Product) TableName() string { return "produtos" }

type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	CustomerID *string         `gorm:"column:cliente_identificador;index" json:"cliente_identificador"`
	PickupCode string          `gorm:"column:codigo_retirada;size:7;uniqueIndex;not null" json:"codigo_retirada"`
	CreatedAt  time.Time       `gorm:"column:data_hora"            json:"data_hora"`
	Status     string          `gorm:"default:PENDENTE;not null"   json:"status"`
	Total      decimal.Decimal `gorm:"column:valor_total;type:decimal(10,2);not null" json:"valor_total"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID"          json:"itens,omitempty"`
}

func (Order) TableName() string { return "pedidos" }

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"column:pedido_id;not null;uniqueIndex:idx_pedido_produto"  json:"pedido_id"`
	ProductID uint            `gorm:"column:produto_id;not null;uniqueIndex:idx_pedido_produto" json:"produto_id"`
	Quantity  uint            `gorm:"column:quantidade;not null;check:quantidade > 0"           json:"quantidade"`
	UnitPrice decimal.Decimal `gorm:"column:preco_unitario_compra;type:decimal(10,2);not null"  json:"preco_unitario_compra"`
}

func (OrderItem) TableName() string { return "itens_pedido" }

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"nome"`
}

func (Category) TableName() string { return "categorias" }
