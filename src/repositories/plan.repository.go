package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Akas679/Inventory-web/src/models"
)

type PlanRepository struct {
	DB *gorm.DB
}

// GetByID
func (r *PlanRepository) GetByID(id uint) (*models.WeeklyStockPlan, error) {
	var plan models.WeeklyStockPlan
	if err := r.DB.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// LockByID - Load the plan row-locked inside the caller's transaction. The
// alert engine anchors its check-then-create section on this lock: the plan
// row always exists, the open-alert row may not yet.
func (r *PlanRepository) LockByID(tx *gorm.DB, id uint) (*models.WeeklyStockPlan, error) {
	var plan models.WeeklyStockPlan
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByKey - The unique (product, week) plan, if any
func (r *PlanRepository) GetByKey(productID uint, weekStart, weekEnd time.Time) (*models.WeeklyStockPlan, error) {
	var plan models.WeeklyStockPlan
	err := r.DB.
		Where("product_id = ? AND week_start_date = ? AND week_end_date = ?",
			productID, weekStart, weekEnd).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// List - All plans, most recent week first
func (r *PlanRepository) List() ([]models.WeeklyStockPlan, error) {
	var plans []models.WeeklyStockPlan
	err := r.DB.Order("week_start_date DESC, product_id ASC").Find(&plans).Error
	return plans, err
}

// ListCurrent - Plans whose week contains the given instant
func (r *PlanRepository) ListCurrent(at time.Time) ([]models.WeeklyStockPlan, error) {
	var plans []models.WeeklyStockPlan
	err := r.DB.
		Where("week_start_date <= ? AND week_end_date >= ?", at, at).
		Order("product_id ASC").
		Find(&plans).Error
	return plans, err
}

// ListCurrentOrUpcoming - Plans whose week has not ended yet; the alert engine
// walks these on every check
func (r *PlanRepository) ListCurrentOrUpcoming(at time.Time) ([]models.WeeklyStockPlan, error) {
	var plans []models.WeeklyStockPlan
	err := r.DB.
		Where("week_end_date >= ?", at).
		Order("week_start_date ASC, product_id ASC").
		Find(&plans).Error
	return plans, err
}

// Create
func (r *PlanRepository) Create(plan *models.WeeklyStockPlan) error {
	return r.DB.Create(plan).Error
}

// Save
func (r *PlanRepository) Save(plan *models.WeeklyStockPlan) error {
	return r.DB.Save(plan).Error
}

// Delete
func (r *PlanRepository) Delete(id uint) error {
	return r.DB.Delete(&models.WeeklyStockPlan{}, id).Error
}

// AlertCount - Alerts referencing the plan; a plan with alert history is
// never physically deleted
func (r *PlanRepository) AlertCount(planID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.LowStockAlert{}).
		Where("weekly_plan_id = ?", planID).
		Count(&count).Error
	return count, err
}
