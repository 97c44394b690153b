package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
	"github.com/cantinadev/cantina-backend/internal/pickup"
	"github.com/cantinadev/cantina-backend/internal/repo"
	"github.com/cantinadev/cantina-backend/internal/transport"
)

// maxInsertAttempts bounds the duplicate-code retry loop. Each attempt
// regenerates the code, so hitting the bound means the store probe and
// the unique constraint disagree persistently.
const maxInsertAttempts = 5

type OrderService struct {
	Repo *repo.GormRepo
	Gen  *pickup.Generator
}

// PlaceOrder validates the requested items against the catalog,
// snapshots each product's current price, and writes the order header
// plus line items atomically under a freshly generated pickup code.
// No partial state survives any failure path.
func (s *OrderService) PlaceOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: 'itens' (lista não vazia) é obrigatório", ErrMalformedInput)
	}

	var customer *string
	if trimmed := strings.TrimSpace(req.CustomerID); trimmed != "" {
		customer = &trimmed
	}

	// Repeated product ids in one request are merged into a single
	// line, keeping the per-order uniqueness of (pedido, produto).
	type line struct {
		productID uint
		quantity  uint
	}
	seen := make(map[uint]int)
	var lines []line
	for _, item := range req.Items {
		if item.ProductID == 0 {
			return nil, fmt.Errorf("%w: cada item deve ter 'produto_id' e 'quantidade'", ErrMalformedInput)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w para o produto ID %d, deve ser maior que zero", ErrInvalidQuantity, item.ProductID)
		}
		if idx, ok := seen[item.ProductID]; ok {
			lines[idx].quantity += uint(item.Quantity)
			continue
		}
		seen[item.ProductID] = len(lines)
		lines = append(lines, line{productID: item.ProductID, quantity: uint(item.Quantity)})
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, ln := range lines {
		prod, err := s.Repo.GetProduct(ctx, ln.productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: produto com ID %d não encontrado", ErrProductNotFound, ln.productID)
			}
			return nil, fmt.Errorf("loading product %d: %w", ln.productID, err)
		}
		if !prod.Available {
			return nil, fmt.Errorf("%w: produto '%s' (ID: %d) não está disponível", ErrProductUnavailable, prod.Name, prod.ID)
		}

		// Purchase-time snapshot: later catalog price changes must not
		// touch this order.
		unitPrice := prod.Price
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(ln.quantity))))
		items = append(items, models.OrderItem{
			ProductID: prod.ID,
			Quantity:  ln.quantity,
			UnitPrice: unitPrice,
		})
	}

	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}

	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		code, err := s.Gen.Generate(ctx)
		if err != nil {
			return nil, err
		}

		order := &models.Order{
			CustomerID: customer,
			PickupCode: code,
			Status:     models.StatusPendente,
			Total:      total,
			Items:      items,
		}
		err = s.Repo.InsertOrderAtomic(ctx, order)
		if errors.Is(err, repo.ErrDuplicateCode) {
			// Lost the race for this code; draw another one.
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}

	return nil, pickup.ErrExhaustedRetries
}

func (s *OrderService) GetOrderByCode(ctx context.Context, code string) (*transport.OrderView, error) {
	order, err := s.Repo.GetOrderByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: pedido não encontrado com este código de retirada", ErrNotFound)
		}
		return nil, err
	}

	views, err := s.orderViews(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string) ([]transport.OrderView, error) {
	orders, err := s.Repo.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.orderViews(ctx, orders)
}

func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]transport.OrderView, error) {
	orders, err := s.Repo.ListOrders(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.orderViews(ctx, orders)
}

// UpdateStatus accepts any casing and stores the canonical uppercase
// value; only the five known statuses are allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, code, status string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(status))
	if normalized == "" {
		return "", fmt.Errorf("%w: novo 'status' é obrigatório", ErrMalformedInput)
	}
	if !models.StatusAllowed(normalized) {
		return "", fmt.Errorf("%w: permitidos: %s", ErrInvalidStatus, strings.Join(models.AllowedStatuses, ", "))
	}

	if err := s.Repo.UpdateStatus(ctx, code, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: pedido não encontrado com este código de retirada", ErrNotFound)
		}
		return "", err
	}
	return normalized, nil
}

func (s *OrderService) DailyEarnings(ctx context.Context, date string) (*transport.EarningsReport, error) {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: formato de data inválido, use AAAA-MM-DD", ErrValidation)
	}

	total, count, err := s.Repo.DailyEarnings(ctx, date)
	if err != nil {
		return nil, err
	}
	return &transport.EarningsReport{Date: date, Total: total, OrderCount: count}, nil
}

func (s *OrderService) orderViews(ctx context.Context, orders []models.Order) ([]transport.OrderView, error) {
	idSet := make(map[uint]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			idSet[item.ProductID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	names, err := s.Repo.ProductNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, order := range orders {
		items := make([]transport.OrderItemView, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, transport.OrderItemView{
				ProductID:   item.ProductID,
				ProductName: names[item.ProductID],
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}
		views = append(views, transport.OrderView{
			ID:         order.ID,
			CustomerID: order.CustomerID,
			PickupCode: order.PickupCode,
			CreatedAt:  order.CreatedAt,
			Status:     order.Status,
			Total:      order.Total,
			Items:      items,
		})
	}
	return views, nil
}
