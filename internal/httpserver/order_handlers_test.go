package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
	"github.com/cantinadev/cantina-backend/internal/pickup"
	"github.com/cantinadev/cantina-backend/internal/repo"
	"github.com/cantinadev/cantina-backend/internal/service"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	Repo    *repo.GormRepo
	Product *ProductHandler
	Order   *OrderHandler
	Admin   *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	catalog := &service.CatalogService{Repo: r}
	orders := &service.OrderService{Repo: r, Gen: &pickup.Generator{Store: r}}

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(false)

	return &testEnv{
		T:       t,
		E:       e,
		Repo:    r,
		Product: &ProductHandler{Catalog: catalog},
		Order:   &OrderHandler{Orders: orders},
		Admin:   &AdminHandler{Catalog: catalog, Orders: orders},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedProduct(name, price string, available bool) *models.Product {
	env.T.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(env.T, err)
	prod := &models.Product{Name: name, Price: p, Available: available, Category: "Geral"}
	require.NoError(env.T, env.Repo.DB.Create(prod).Error)
	return prod
}

func TestCreateOrderScenario(t *testing.T) {
	env := newTestEnv(t)
	prod := env.seedProduct("Coxinha", "5.00", true)

	rec, c := env.doJSONRequest(http.MethodPost, "/pedidos", map[string]any{
		"itens": []map[string]any{{"produto_id": prod.ID, "quantidade": 3}},
	})
	require.NoError(t, env.Order.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		OrderID    uint            `json:"pedido_id"`
		PickupCode string          `json:"codigo_retirada"`
		Total      decimal.Decimal `json:"valor_total"`
		Status     string          `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.OrderID)
	require.Regexp(t, `^[A-Z0-9]{7}$`, resp.PickupCode)
	require.True(t, resp.Total.Equal(decimal.RequireFromString("15.00")), "got %s", resp.Total)
	require.Equal(t, "PENDENTE", resp.Status)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct("Coxinha", "5.00", true)

	rec, c := env.doJSONRequest(http.MethodPost, "/pedidos", map[string]any{
		"itens": []map[string]any{{"produto_id": 99, "quantidade": 1}},
	})
	err := env.Order.CreateOrder(c)
	require.Error(t, err)
	env.E.HTTPErrorHandler(err, c)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Erro string `json:"erro"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Erro, "produto")

	var orders int64
	require.NoError(t, env.Repo.DB.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/pedidos", map[string]any{"itens": []any{}})
	err := env.Order.CreateOrder(c)
	require.Error(t, err)
	env.E.HTTPErrorHandler(err, c)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderByCodeHandler(t *testing.T) {
	env := newTestEnv(t)
	prod := env.seedProduct("Suco", "3.00", true)

	rec, c := env.doJSONRequest(http.MethodPost, "/pedidos", map[string]any{
		"itens": []map[string]any{{"produto_id": prod.ID, "quantidade": 2}},
	})
	require.NoError(t, env.Order.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		PickupCode string `json:"codigo_retirada"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/pedidos/"+created.PickupCode, nil)
	c2.SetParamNames("codigo")
	c2.SetParamValues(created.PickupCode)
	require.NoError(t, env.Order.GetOrder(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var view struct {
		Items []struct {
			ProductName string `json:"produto_nome"`
			Quantity    uint   `json:"quantidade"`
		} `json:"itens"`
	}
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.Equal(t, "Suco", view.Items[0].ProductName)
	require.EqualValues(t, 2, view.Items[0].Quantity)
}

func TestUpdateOrderStatusCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	prod := env.seedProduct("Bolo", "6.00", true)

	rec, c := env.doJSONRequest(http.MethodPost, "/pedidos", map[string]any{
		"itens": []map[string]any{{"produto_id": prod.ID, "quantidade": 1}},
	})
	require.NoError(t, env.Order.CreateOrder(c))
	var created struct {
		PickupCode string `json:"codigo_retirada"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec2, c2 := env.doJSONRequest(http.MethodPut, "/admin/pedidos/"+created.PickupCode+"/status",
		map[string]string{"status": "pronto"})
	c2.SetParamNames("codigo")
	c2.SetParamValues(created.PickupCode)
	require.NoError(t, env.Admin.UpdateOrderStatus(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	stored, err := env.Repo.GetOrderByCode(c2.Request().Context(), created.PickupCode)
	require.NoError(t, err)
	require.Equal(t, models.StatusPronto, stored.Status)
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPut, "/admin/pedidos/ABC1234/status",
		map[string]string{"status": "enviado"})
	c.SetParamNames("codigo")
	c.SetParamValues("ABC1234")
	err := env.Admin.UpdateOrderStatus(c)
	require.Error(t, err)
	env.E.HTTPErrorHandler(err, c)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
