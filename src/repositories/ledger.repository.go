package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/models"
)

type LedgerRepository struct {
	DB *gorm.DB
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	ProductID uint
	Type      models.TransactionType
	UserID    uint
	FromDate  time.Time
	ToDate    time.Time
}

// Append - Insert one immutable ledger row inside the caller's transaction
func (r *LedgerRepository) Append(tx *gorm.DB, txn *models.StockTransaction) error {
	return tx.Create(txn).Error
}

// ListTransactions - Filtered history, newest first
func (r *LedgerRepository) ListTransactions(filter TransactionFilter) ([]models.StockTransaction, error) {
	query := r.DB.Model(&models.StockTransaction{})

	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if !filter.FromDate.IsZero() {
		query = query.Where("transaction_date >= ?", filter.FromDate)
	}
	if !filter.ToDate.IsZero() {
		query = query.Where("transaction_date <= ?", filter.ToDate)
	}

	var transactions []models.StockTransaction
	err := query.
		Order("transaction_date DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

// SumStockOut - Total stock-out quantity for a product within [from, to]
// inclusive. Pure read-side aggregation; recomputed on demand so it is always
// consistent with the latest committed transactions.
func (r *LedgerRepository) SumStockOut(productID uint, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.Model(&models.StockTransaction{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ? AND type = ? AND transaction_date >= ? AND transaction_date <= ?",
			productID, models.TransactionTypeStockOut, from, to).
		Scan(&total).Error
	return total, err
}

// StockOutsSince - Stock-out rows from a date onward, oldest first, for the
// weekly bucketing report
func (r *LedgerRepository) StockOutsSince(from time.Time) ([]models.StockTransaction, error) {
	var transactions []models.StockTransaction
	query := r.DB.Model(&models.StockTransaction{}).
		Where("type = ?", models.TransactionTypeStockOut)
	if !from.IsZero() {
		query = query.Where("transaction_date >= ?", from)
	}
	err := query.
		Order("transaction_date ASC, id ASC").
		Find(&transactions).Error
	return transactions, err
}

// UserTransactionCount - Ledger rows attributed to a user
func (r *LedgerRepository) UserTransactionCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.StockTransaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
