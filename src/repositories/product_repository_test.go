package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func weekFixture() (time.Time, time.Time) {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC)
}

func TestCompareAndSwapStock(t *testing.T) {
	t.Run("matching balance updates one row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := &ProductRepository{DB: db}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rows, err := repo.CompareAndSwapStock(db, 7,
			decimal.RequireFromString("10.000"),
			decimal.RequireFromString("12.500"))
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale balance updates nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := &ProductRepository{DB: db}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		rows, err := repo.CompareAndSwapStock(db, 7,
			decimal.RequireFromString("10.000"),
			decimal.RequireFromString("12.500"))
		assert.NoError(t, err)
		assert.Equal(t, int64(0), rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSumStockOut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &LedgerRepository{DB: db}

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "stock_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("37.250"))

	from, to := weekFixture()
	total, err := repo.SumStockOut(3, from, to)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("37.25")), "got %s", total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSumStockOutEmptyLedger(t *testing.T) {
	db, mock := newMockDB(t)
	repo := &LedgerRepository{DB: db}

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "stock_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

	from, to := weekFixture()
	total, err := repo.SumStockOut(3, from, to)
	assert.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
