package postgres

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/database"
)

var orderColumns = []string{
	"order_id", "order_date", "customer", "payment", "notes", "items", "subtotal", "shipping", "total",
}

func newTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock := database.NewMockPool(t)

	repo := NewOrderRepository(mock)
	repo.now = func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) }
	return repo, mock
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderID:   "ORD-1741964966000",
		OrderDate: "14/3/2025, 12:09:26",
		Customer: domain.Customer{
			Name:     "Ana Pérez",
			Email:    "ana@example.com",
			Phone:    "1122334455",
			Address:  "Av. Siempre Viva 742",
			Province: "Buenos Aires",
		},
		Payment: "efectivo",
		Notes:   "timbre 2B",
		Items: []domain.LineItem{
			{ID: 1, Title: "Mate Imperial", Price: "$5.000", Quantity: 2},
		},
		Totals: domain.Totals{Subtotal: 10000, Shipping: 1500, Total: 11500},
	}
}

func TestOrderRepository_Append_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.OrderID, "",
			o.OrderDate,
			pgxmock.AnyArg(), // customer JSON
			o.Payment, o.Notes,
			pgxmock.AnyArg(), // items JSON
			o.Totals.Subtotal, o.Totals.Shipping, o.Totals.Total,
			repo.now().UTC(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Append(context.Background(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Append_InsertError(t *testing.T) {
	repo, mock := newTestRepo(t)
	o := sampleOrder()

	mock.ExpectExec("INSERT INTO orders").
		WillReturnError(errors.New(`duplicate key value violates unique constraint "orders_pkey"`))

	err := repo.Append(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order ORD-1741964966000")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT order_id").WithArgs("").WillReturnRows(pgxmock.NewRows(orderColumns))

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_DecodesSnapshot(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := pgxmock.NewRows(orderColumns).
		AddRow(
			"ORD-1", "1/2/2025, 10:00:00",
			[]byte(`{"name":"Ana","email":"ana@example.com","phone":"1","address":"Calle 1","province":"Córdoba"}`),
			"tarjeta", "",
			[]byte(`[{"id":2,"title":"Bombilla","price":"$2.500","quantity":3}]`),
			int64(7500), int64(1500), int64(9000),
		).
		AddRow(
			"ORD-2", "2/2/2025, 10:00:00",
			[]byte(`{"name":"Luis"}`),
			"efectivo", "sin cambio",
			[]byte(`[]`),
			int64(0), int64(1500), int64(1500),
		)
	mock.ExpectQuery("SELECT order_id").WillReturnRows(rows)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	first := orders[0]
	assert.Equal(t, "ORD-1", first.OrderID)
	assert.Equal(t, "Córdoba", first.Customer.Province)
	assert.Equal(t, "Tarjeta de Crédito/Débito", first.PaymentName())
	require.Len(t, first.Items, 1)
	assert.Equal(t, 3, first.Items[0].Quantity)
	assert.Equal(t, domain.Totals{Subtotal: 7500, Shipping: 1500, Total: 9000}, first.Totals)

	assert.Equal(t, "sin cambio", orders[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_QueryError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT order_id").WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list orders")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_CorruptItems(t *testing.T) {
	repo, mock := newTestRepo(t)

	rows := pgxmock.NewRows(orderColumns).
		AddRow("ORD-9", "x", []byte(`{}`), "efectivo", "", []byte(`{not json`), int64(0), int64(0), int64(0))
	mock.ExpectQuery("SELECT order_id").WillReturnRows(rows)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal items of ORD-9")
}

func TestOrderRepository_ForOwner_ScopesReadsAndWrites(t *testing.T) {
	base, mock := newTestRepo(t)
	repo := base.ForOwner("3f1c9a52-6d7e-4b8f-9a10-2c3d4e5f6a7b")
	o := sampleOrder()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.OrderID, "3f1c9a52-6d7e-4b8f-9a10-2c3d4e5f6a7b",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			base.now().UTC(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("WHERE owner = \\$1").
		WithArgs("3f1c9a52-6d7e-4b8f-9a10-2c3d4e5f6a7b").
		WillReturnRows(pgxmock.NewRows(orderColumns))

	require.NoError(t, repo.Append(context.Background(), o))
	_, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_ContainsOrdersTable(t *testing.T) {
	data, err := fs.ReadFile(Migrations(), "001_create_orders.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS orders")
}

func TestMigrations_AddsOwnerColumn(t *testing.T) {
	data, err := fs.ReadFile(Migrations(), "002_add_order_owner.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "ADD COLUMN IF NOT EXISTS owner")
}
