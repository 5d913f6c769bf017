package repositories

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/models"
)

type ProductRepository struct {
	DB *gorm.DB
}

// GetByID - Load a product by id (any state)
func (r *ProductRepository) GetByID(tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List - All products, name order
func (r *ProductRepository) List() ([]models.Product, error) {
	var products []models.Product
	err := r.DB.Order("name ASC").Find(&products).Error
	return products, err
}

// Search - Case-insensitive name search
func (r *ProductRepository) Search(query string) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.
		Where("name ILIKE ?", "%"+query+"%").
		Order("name ASC").
		Limit(50).
		Find(&products).Error
	return products, err
}

// Create
func (r *ProductRepository) Create(product *models.Product) error {
	return r.DB.Create(product).Error
}

// Save - Persist attribute changes (never the balance; see CompareAndSwapStock)
func (r *ProductRepository) Save(product *models.Product) error {
	return r.DB.Save(product).Error
}

// Delete - Hard delete; callers must check TransactionCount first
func (r *ProductRepository) Delete(id uint) error {
	return r.DB.Delete(&models.Product{}, id).Error
}

// TransactionCount - Number of ledger rows referencing the product
func (r *ProductRepository) TransactionCount(productID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.StockTransaction{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// CompareAndSwapStock - Conditional balance update. Zero rows affected means
// another writer committed between our read and this write; the caller aborts
// the surrounding transaction and retries the whole read-modify-write.
func (r *ProductRepository) CompareAndSwapStock(tx *gorm.DB, id uint, previous, next decimal.Decimal) (int64, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND current_stock = ?", id, previous).
		Update("current_stock", next)
	return res.RowsAffected, res.Error
}
