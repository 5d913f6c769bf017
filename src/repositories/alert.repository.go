package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Akas679/Inventory-web/src/models"
)

type AlertRepository struct {
	DB *gorm.DB
}

// OpenForPlan - The unresolved alert for a (product, plan) pair, row-locked
// inside the caller's transaction. Callers must already hold the plan row
// lock; this lock alone cannot serialize the create path, since it matches
// no row before the first alert exists.
func (r *AlertRepository) OpenForPlan(tx *gorm.DB, productID, planID uint) (*models.LowStockAlert, error) {
	var alert models.LowStockAlert
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND weekly_plan_id = ? AND resolved = ?", productID, planID, false).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// Create - Inside the caller's transaction
func (r *AlertRepository) Create(tx *gorm.DB, alert *models.LowStockAlert) error {
	return tx.Create(alert).Error
}

// Save - Inside the caller's transaction
func (r *AlertRepository) Save(tx *gorm.DB, alert *models.LowStockAlert) error {
	return tx.Save(alert).Error
}

// Unresolved - All open alerts, newest first
func (r *AlertRepository) Unresolved() ([]models.LowStockAlert, error) {
	var alerts []models.LowStockAlert
	err := r.DB.
		Where("resolved = ?", false).
		Order("alert_date DESC, id DESC").
		Find(&alerts).Error
	return alerts, err
}
