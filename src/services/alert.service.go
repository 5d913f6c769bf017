package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/metrics"
	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
)

// criticalFraction is the share of the planned quantity at or below which an
// alert escalates from low to critical.
var criticalFraction = decimal.New(5, -1)

// ============ ALERT SERVICE ============
// AlertService evaluates current stock against active weekly plans and keeps
// at most one unresolved alert per (product, plan) pair.
type AlertService struct {
	DB       *gorm.DB
	Products *repositories.ProductRepository
	Plans    *repositories.PlanRepository
	Alerts   *repositories.AlertRepository
	Logger   *zap.Logger
}

// CheckResult summarizes one evaluation sweep.
type CheckResult struct {
	Checked  int `json:"checked"`
	Raised   int `json:"raised"`
	Updated  int `json:"updated"`
	Resolved int `json:"resolved"`
}

// CheckAndRaise evaluates every plan whose week has not ended. Each plan is
// processed in its own transaction so one failing pair does not abort the
// sweep; the open-alert row is locked for the check-then-write step.
func (s *AlertService) CheckAndRaise() (*CheckResult, error) {
	plans, err := s.Plans.ListCurrentOrUpcoming(WeekDay(time.Now()))
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	for i := range plans {
		outcome, err := s.checkPlan(&plans[i])
		if err != nil {
			s.Logger.Error("alert check failed for plan",
				zap.Uint("plan_id", plans[i].ID),
				zap.Uint("product_id", plans[i].ProductID),
				zap.Error(err),
			)
			continue
		}
		result.Checked++
		switch outcome {
		case alertRaised:
			result.Raised++
		case alertUpdated:
			result.Updated++
		case alertResolved:
			result.Resolved++
		}
	}
	return result, nil
}

type checkOutcome int

const (
	alertUnchanged checkOutcome = iota
	alertRaised
	alertUpdated
	alertResolved
)

// checkPlan classifies one (product, plan) pair and reconciles its open alert.
func (s *AlertService) checkPlan(plan *models.WeeklyStockPlan) (checkOutcome, error) {
	outcome := alertUnchanged

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the plan row, not just the open-alert row: FOR UPDATE on a
		// query that matches nothing locks nothing, so before the first
		// alert exists two sweeps could both take the create branch. The
		// plan row always exists and serializes the pair.
		locked, err := s.Plans.LockByID(tx, plan.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		plan = locked

		product, err := s.Products.GetByID(tx, plan.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !product.IsActive {
			return nil
		}

		open, err := s.Alerts.OpenForPlan(tx, product.ID, plan.ID)
		hasOpen := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		current := product.CurrentStock
		level, breached := classify(current, plan.PlannedQuantity)

		if !breached {
			if hasOpen {
				now := time.Now().UTC()
				open.Resolved = true
				open.ResolvedAt = &now
				if err := s.Alerts.Save(tx, open); err != nil {
					return err
				}
				outcome = alertResolved
				metrics.RecordAlertResolved()
				s.Logger.Info("low stock alert auto-resolved",
					zap.Uint("alert_id", open.ID),
					zap.Uint("product_id", product.ID),
					zap.String("current_stock", current.String()),
				)
			}
			return nil
		}

		if hasOpen {
			if open.AlertLevel == level && open.CurrentQuantity.Equal(current) {
				return nil
			}
			open.AlertLevel = level
			open.CurrentQuantity = current
			open.PlannedQuantity = plan.PlannedQuantity
			if err := s.Alerts.Save(tx, open); err != nil {
				return err
			}
			outcome = alertUpdated
			return nil
		}

		alert := &models.LowStockAlert{
			ProductID:       product.ID,
			WeeklyPlanID:    plan.ID,
			CurrentQuantity: current,
			PlannedQuantity: plan.PlannedQuantity,
			AlertLevel:      level,
			AlertDate:       time.Now().UTC(),
		}
		if err := s.Alerts.Create(tx, alert); err != nil {
			return err
		}
		outcome = alertRaised
		metrics.RecordAlertRaised(string(level))
		s.Logger.Warn("low stock alert raised",
			zap.Uint("alert_id", alert.ID),
			zap.Uint("product_id", product.ID),
			zap.String("level", string(level)),
			zap.String("current_stock", current.String()),
			zap.String("planned_quantity", plan.PlannedQuantity.String()),
		)
		return nil
	})

	if err != nil {
		return alertUnchanged, err
	}
	return outcome, nil
}

// classify maps a balance against its plan: at or above plan is healthy, at or
// below half the plan is critical, anything between is low.
func classify(current, planned decimal.Decimal) (models.AlertLevel, bool) {
	if current.GreaterThanOrEqual(planned) {
		return "", false
	}
	if current.LessThanOrEqual(planned.Mul(criticalFraction)) {
		return models.AlertLevelCritical, true
	}
	return models.AlertLevelLow, true
}

// Resolve marks an alert resolved. Resolving an already-resolved alert is a
// no-op success, so clients may retry freely.
func (s *AlertService) Resolve(id uint) (*models.LowStockAlert, error) {
	var alert *models.LowStockAlert

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var found models.LowStockAlert
		if err := tx.First(&found, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAlertNotFound
			}
			return err
		}
		if found.Resolved {
			alert = &found
			return nil
		}
		now := time.Now().UTC()
		found.Resolved = true
		found.ResolvedAt = &now
		if err := s.Alerts.Save(tx, &found); err != nil {
			return err
		}
		metrics.RecordAlertResolved()
		alert = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

// Unresolved returns all open alerts, newest first.
func (s *AlertService) Unresolved() ([]models.LowStockAlert, error) {
	return s.Alerts.Unresolved()
}
