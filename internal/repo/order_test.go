package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a fresh pooled connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) *GormRepo {
	return &GormRepo{DB: initTestDB(t)}
}

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedProduct(t *testing.T, r *GormRepo, name, p string, available bool) *models.Product {
	t.Helper()
	prod := &models.Product{Name: name, Price: price(t, p), Available: available, Category: "Geral"}
	_, err := r.CreateProduct(context.Background(), prod)
	require.NoError(t, err)
	return prod
}

func TestInsertOrderAtomic(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "coxinha", "5.00", true)

	order := &models.Order{
		PickupCode: "ABC1234",
		Status:     models.StatusPendente,
		Total:      price(t, "10.00"),
		Items: []models.OrderItem{
			{ProductID: prod.ID, Quantity: 2, UnitPrice: price(t, "5.00")},
		},
	}
	require.NoError(t, r.InsertOrderAtomic(ctx, order))
	require.NotZero(t, order.ID)
	require.Len(t, order.Items, 1)
	require.Equal(t, order.ID, order.Items[0].OrderID)

	exists, err := r.CodeExists(ctx, "ABC1234")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = r.CodeExists(ctx, "ZZZ9999")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestInsertOrderAtomicDuplicateCode(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "pastel", "4.50", true)

	first := &models.Order{
		PickupCode: "SAMECOD",
		Status:     models.StatusPendente,
		Total:      price(t, "4.50"),
		Items:      []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, "4.50")}},
	}
	require.NoError(t, r.InsertOrderAtomic(ctx, first))

	second := &models.Order{
		PickupCode: "SAMECOD",
		Status:     models.StatusPendente,
		Total:      price(t, "4.50"),
		Items:      []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, "4.50")}},
	}
	err := r.InsertOrderAtomic(ctx, second)
	require.ErrorIs(t, err, ErrDuplicateCode)

	// the failed insert must not leave a header or items behind
	var headers, items int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&headers).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	require.EqualValues(t, 1, headers)
	require.EqualValues(t, 1, items)
}

func TestInsertOrderAtomicRollsBackHeaderOnItemFailure(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "suco", "3.00", true)

	// duplicate (pedido, produto) pair violates the composite unique
	// index on the second item insert
	order := &models.Order{
		PickupCode: "ROLLBCK",
		Status:     models.StatusPendente,
		Total:      price(t, "6.00"),
		Items: []models.OrderItem{
			{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, "3.00")},
			{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, "3.00")},
		},
	}
	err := r.InsertOrderAtomic(ctx, order)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateCode)

	var headers, items int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&headers).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	require.Zero(t, headers)
	require.Zero(t, items)
}

func TestGetOrderByCode(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "café", "2.50", true)
	order := &models.Order{
		PickupCode: "CAFE123",
		Status:     models.StatusPendente,
		Total:      price(t, "5.00"),
		Items:      []models.OrderItem{{ProductID: prod.ID, Quantity: 2, UnitPrice: price(t, "2.50")}},
	}
	require.NoError(t, r.InsertOrderAtomic(ctx, order))

	got, err := r.GetOrderByCode(ctx, "CAFE123")
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)
	require.Len(t, got.Items, 1)
	require.True(t, got.Total.Equal(price(t, "5.00")))

	_, err = r.GetOrderByCode(ctx, "NOPE123")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateStatus(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "bolo", "6.00", true)
	order := &models.Order{
		PickupCode: "BOLO123",
		Status:     models.StatusPendente,
		Total:      price(t, "6.00"),
		Items:      []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, "6.00")}},
	}
	require.NoError(t, r.InsertOrderAtomic(ctx, order))

	require.NoError(t, r.UpdateStatus(ctx, "BOLO123", models.StatusPronto))

	got, err := r.GetOrderByCode(ctx, "BOLO123")
	require.NoError(t, err)
	require.Equal(t, models.StatusPronto, got.Status)

	err = r.UpdateStatus(ctx, "MISSING", models.StatusPronto)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteProductReferenced(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "esfiha", "4.00", true)
	order := &models.Order{
		PickupCode: "ESF1234",
		Status:     models.StatusPendente,
		Total:      price(t, "4.00"),
		Items:      []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, "4.00")}},
	}
	require.NoError(t, r.InsertOrderAtomic(ctx, order))

	_, err := r.DeleteProduct(ctx, prod.ID)
	require.ErrorIs(t, err, ErrProductReferenced)

	// product and line items untouched
	var prods, items int64
	require.NoError(t, r.DB.Model(&models.Product{}).Count(&prods).Error)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&items).Error)
	require.EqualValues(t, 1, prods)
	require.EqualValues(t, 1, items)

	free := seedProduct(t, r, "água", "2.00", true)
	deleted, err := r.DeleteProduct(ctx, free.ID)
	require.NoError(t, err)
	require.Equal(t, "água", deleted.Name)
}

func TestDailyEarnings(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "lanche", "10.00", true)
	mk := func(code, status, total string) {
		order := &models.Order{
			PickupCode: code,
			Status:     status,
			Total:      price(t, total),
			Items:      []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: price(t, total)}},
		}
		require.NoError(t, r.InsertOrderAtomic(ctx, order))
	}
	mk("GANHO01", models.StatusPendente, "10.00")
	mk("GANHO02", models.StatusEntregue, "12.50")
	mk("GANHO03", models.StatusCancelado, "99.00")

	today := time.Now().UTC().Format("2006-01-02")
	total, count, err := r.DailyEarnings(ctx, today)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.True(t, total.Equal(price(t, "22.50")), "got %s", total)
}

func TestListAvailableProductsFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, "Coxinha de Frango", "5.00", true)
	hidden := seedProduct(t, r, "Coxinha Vegana", "6.00", false)
	doce := seedProduct(t, r, "Brigadeiro", "2.00", true)
	doce.Category = "Doces"
	require.NoError(t, r.DB.Save(doce).Error)

	all, err := r.ListAvailableProducts(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		require.NotEqual(t, hidden.ID, p.ID)
	}

	doces, err := r.ListAvailableProducts(ctx, "doces", "")
	require.NoError(t, err)
	require.Len(t, doces, 1)
	require.Equal(t, "Brigadeiro", doces[0].Name)

	busca, err := r.ListAvailableProducts(ctx, "", "frango")
	require.NoError(t, err)
	require.Len(t, busca, 1)
	require.Equal(t, "Coxinha de Frango", busca[0].Name)
}
