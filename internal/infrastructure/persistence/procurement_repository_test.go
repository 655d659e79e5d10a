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

func newMockProcurementRepository(t *testing.T) (*GormProcurementRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormProcurementRepository(gormDB), mock, mockDB
}

func TestGormProcurementRepository_FindByID(t *testing.T) {
	t.Run("finds existing procurement with items", func(t *testing.T) {
		repo, mock, mockDB := newMockProcurementRepository(t)
		defer mockDB.Close()

		procID := uuid.New()
		orderID := uuid.New()

		procRows := sqlmock.NewRows([]string{"id", "procurement_number", "order_id", "total_amount", "status", "version"}).
			AddRow(procID, "PO-2026-00007", orderID, decimal.NewFromInt(500), "DRAFT", 1)
		mock.ExpectQuery(`SELECT \* FROM "procurements" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(procID, 1).
			WillReturnRows(procRows)

		itemRows := sqlmock.NewRows([]string{"id", "procurement_id", "product_code", "supplier_id", "supplier_name", "quantity", "unit_price", "currency", "selected"}).
			AddRow(uuid.New(), procID, "P-100", uuid.New(), "Globex Supply", decimal.NewFromInt(50), decimal.NewFromInt(10), "USD", true)
		mock.ExpectQuery(`SELECT \* FROM "procurement_items" WHERE "procurement_items"\."procurement_id" = \$1`).
			WithArgs(procID).
			WillReturnRows(itemRows)

		proc, err := repo.FindByID(context.Background(), procID)

		require.NoError(t, err)
		assert.Equal(t, "PO-2026-00007", proc.ProcurementNumber)
		assert.Equal(t, orderID, proc.OrderID)
		require.Len(t, proc.Items, 1)
		assert.Equal(t, "Globex Supply", proc.Items[0].SupplierName)
		assert.True(t, proc.Items[0].Selected)
	})

	t.Run("returns ErrNotFound for missing procurement", func(t *testing.T) {
		repo, mock, mockDB := newMockProcurementRepository(t)
		defer mockDB.Close()

		procID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "procurements" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(procID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		proc, err := repo.FindByID(context.Background(), procID)

		assert.Nil(t, proc)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormProcurementRepository_FindByOrderID(t *testing.T) {
	repo, mock, mockDB := newMockProcurementRepository(t)
	defer mockDB.Close()

	orderID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	procRows := sqlmock.NewRows([]string{"id", "procurement_number", "order_id", "status"}).
		AddRow(firstID, "PO-2026-00001", orderID, "CONFIRMED").
		AddRow(secondID, "PO-2026-00002", orderID, "DRAFT")
	mock.ExpectQuery(`SELECT \* FROM "procurements" WHERE order_id = \$1 ORDER BY created_at ASC`).
		WithArgs(orderID).
		WillReturnRows(procRows)

	mock.ExpectQuery(`SELECT \* FROM "procurement_items" WHERE "procurement_items"\."procurement_id" IN \(\$1,\$2\)`).
		WithArgs(firstID, secondID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "procurement_id"}))

	procs, err := repo.FindByOrderID(context.Background(), orderID)

	require.NoError(t, err)
	require.Len(t, procs, 2)
	assert.Equal(t, "PO-2026-00001", procs[0].ProcurementNumber)
	assert.Equal(t, "PO-2026-00002", procs[1].ProcurementNumber)
}

func TestGormProcurementRepository_Count(t *testing.T) {
	repo, mock, mockDB := newMockProcurementRepository(t)
	defer mockDB.Close()

	orderID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "procurements" WHERE order_id = \$1`).
		WithArgs(orderID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	filter := shared.DefaultFilter()
	filter.Filters["order_id"] = orderID.String()

	count, err := repo.Count(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProcurementRepository_GenerateProcurementNumber(t *testing.T) {
	t.Run("first procurement of the year", func(t *testing.T) {
		repo, mock, mockDB := newMockProcurementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "procurements" WHERE procurement_number LIKE \$1 ORDER BY procurement_number DESC,.* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		number, err := repo.GenerateProcurementNumber(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, `^PO-\d{4}-00001$`, number)
	})

	t.Run("increments the last number", func(t *testing.T) {
		repo, mock, mockDB := newMockProcurementRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "procurement_number"}).
			AddRow(uuid.New(), "PO-2026-00016")
		mock.ExpectQuery(`SELECT \* FROM "procurements" WHERE procurement_number LIKE \$1 ORDER BY procurement_number DESC,.* LIMIT .*`).
			WillReturnRows(rows)

		number, err := repo.GenerateProcurementNumber(context.Background())

		require.NoError(t, err)
		assert.Regexp(t, `^PO-\d{4}-00017$`, number)
	})
}
