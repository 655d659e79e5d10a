package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestNewGormOrderRepository(t *testing.T) {
	repo, _, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order with items and batches", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		itemID := uuid.New()

		orderRows := sqlmock.NewRows([]string{"id", "order_number", "customer_id", "customer_name", "currency", "total_amount", "status", "version"}).
			AddRow(orderID, "SO-2026-00001", uuid.New(), "Acme Trading", "USD", decimal.NewFromInt(1000), "DRAFT", 1)
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(orderRows)

		itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_code", "product_name", "quantity", "unit_price", "currency"}).
			AddRow(itemID, orderID, "P-100", "Widget", decimal.NewFromInt(100), decimal.NewFromInt(10), "USD")
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(itemRows)

		batchRows := sqlmock.NewRows([]string{"id", "order_item_id", "batch_number", "quantity", "status"}).
			AddRow(uuid.New(), itemID, 1, decimal.NewFromInt(40), "PENDING")
		mock.ExpectQuery(`SELECT \* FROM "shipment_batches" WHERE "shipment_batches"\."order_item_id" = \$1`).
			WithArgs(itemID).
			WillReturnRows(batchRows)

		order, err := repo.FindByID(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, "SO-2026-00001", order.OrderNumber)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "P-100", order.Items[0].ProductCode)
		require.Len(t, order.Items[0].Batches, 1)
		assert.Equal(t, 1, order.Items[0].Batches[0].BatchNumber)
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, order)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormOrderRepository_Count(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE status = \$1`).
		WithArgs("DRAFT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = "DRAFT"

	count, err := repo.Count(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	t.Run("first order of the year", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number LIKE \$1 ORDER BY order_number DESC,.* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		number, err := repo.GenerateOrderNumber(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, `^SO-\d{4}-00001$`, number)
	})

	t.Run("increments the last number", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "order_number"}).
			AddRow(uuid.New(), "SO-2026-00041")
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number LIKE \$1 ORDER BY order_number DESC,.* LIMIT .*`).
			WillReturnRows(rows)

		number, err := repo.GenerateOrderNumber(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, `^SO-\d{4}-00042$`, number)
	})
}
