package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/metrics"
	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
	"github.com/Akas679/Inventory-web/src/units"
)

// ============ REQUEST STRUCTS ============
type PlanRequest struct {
	ProductID       uint
	WeekStartDate   time.Time
	WeekEndDate     time.Time
	PlannedQuantity decimal.Decimal
	Unit            units.Unit
}

type PlanUpdateRequest struct {
	PlannedQuantity decimal.Decimal
	Unit            units.Unit
}

// WeeklyStockOut is one Monday-Sunday consumption bucket for one product.
type WeeklyStockOut struct {
	ProductID     uint            `json:"productId"`
	WeekStartDate string          `json:"weekStartDate"`
	WeekEndDate   string          `json:"weekEndDate"`
	OutQuantity   decimal.Decimal `json:"outQuantity"`
}

// ============ PLAN SERVICE ============
// PlanService owns weekly stock plans and the read-side reconciliation of
// stock-out history into week buckets. It never mutates the ledger.
type PlanService struct {
	DB       *gorm.DB
	Products *repositories.ProductRepository
	Ledger   *repositories.LedgerRepository
	Plans    *repositories.PlanRepository
	Logger   *zap.Logger
}

// PreviousWeekConsumption sums stock-out quantities for the product whose
// transaction date falls within [weekStart, weekEnd] inclusive. Recomputed on
// demand, never cached.
func (s *PlanService) PreviousWeekConsumption(productID uint, weekStart, weekEnd time.Time) (decimal.Decimal, error) {
	return s.Ledger.SumStockOut(productID, weekStart, weekEnd)
}

// CreatePlans validates every plan, then inserts them in one unit of work: a
// duplicate (product, week) key rejects the whole request with no partial
// mutation.
func (s *PlanService) CreatePlans(reqs []PlanRequest, userID uint) ([]models.WeeklyStockPlan, error) {
	if len(reqs) == 0 {
		return nil, &ValidationError{Field: "plans", Message: "at least one plan is required"}
	}
	if userID == 0 {
		return nil, &ValidationError{Field: "userId", Message: "is required for audit attribution"}
	}

	plans := make([]models.WeeklyStockPlan, 0, len(reqs))
	for _, req := range reqs {
		plan, err := s.buildPlan(req, userID)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range plans {
			if err := tx.Create(&plans[i]).Error; err != nil {
				// The pre-insert duplicate check runs outside this
				// transaction; a concurrent create for the same week
				// surfaces here as the unique index firing.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicatePlan
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPlansCreated(len(plans))
	s.Logger.Info("weekly stock plans created",
		zap.Int("count", len(plans)),
		zap.Uint("user_id", userID),
	)
	return plans, nil
}

// buildPlan validates one request and snapshots present stock and the prior
// week's observed consumption.
func (s *PlanService) buildPlan(req PlanRequest, userID uint) (*models.WeeklyStockPlan, error) {
	if req.WeekStartDate.IsZero() {
		return nil, &ValidationError{Field: "weekStartDate", Message: "is required"}
	}
	if !req.PlannedQuantity.IsPositive() {
		return nil, &ValidationError{
			Field:   "plannedQuantity",
			Message: "must be greater than zero",
			Value:   req.PlannedQuantity.String(),
		}
	}

	product, err := s.Products.GetByID(s.DB, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}

	// Any date inside the week addresses that week; the stored bounds are
	// always the enclosing Monday and Sunday.
	weekStart, weekEnd := WeekBounds(req.WeekStartDate)
	if !req.WeekEndDate.IsZero() && !WeekDay(req.WeekEndDate).Equal(WeekDay(weekEnd)) {
		return nil, &ValidationError{
			Field:   "weekEndDate",
			Message: "must be the Sunday of the same ISO week",
			Value:   req.WeekEndDate.Format("2006-01-02"),
		}
	}

	planned, err := units.Convert(req.PlannedQuantity, req.Unit, units.Unit(product.Unit))
	if err != nil {
		return nil, err
	}

	if _, err := s.Plans.GetByKey(product.ID, weekStart, WeekDay(weekEnd)); err == nil {
		return nil, ErrDuplicatePlan
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prevStart, prevEnd := WeekBounds(weekStart.AddDate(0, 0, -7))
	consumed, err := s.PreviousWeekConsumption(product.ID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	return &models.WeeklyStockPlan{
		ProductID:         product.ID,
		WeekStartDate:     weekStart,
		WeekEndDate:       WeekDay(weekEnd),
		PlannedQuantity:   planned,
		PresentStock:      product.CurrentStock,
		PreviousWeekStock: consumed,
		Unit:              product.Unit,
		UserID:            userID,
	}, nil
}

// UpdatePlan adjusts the planned quantity of an existing plan.
func (s *PlanService) UpdatePlan(id uint, req PlanUpdateRequest) (*models.WeeklyStockPlan, error) {
	plan, err := s.Plans.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	if !req.PlannedQuantity.IsPositive() {
		return nil, &ValidationError{
			Field:   "plannedQuantity",
			Message: "must be greater than zero",
			Value:   req.PlannedQuantity.String(),
		}
	}
	unit := req.Unit
	if unit == "" {
		unit = units.Unit(plan.Unit)
	}
	planned, err := units.Convert(req.PlannedQuantity, unit, units.Unit(plan.Unit))
	if err != nil {
		return nil, err
	}

	plan.PlannedQuantity = planned
	if err := s.Plans.Save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans - All plans, most recent week first
func (s *PlanService) ListPlans() ([]models.WeeklyStockPlan, error) {
	return s.Plans.List()
}

// CurrentWeekPlans - Plans covering the current ISO week
func (s *PlanService) CurrentWeekPlans() ([]models.WeeklyStockPlan, error) {
	return s.Plans.ListCurrent(WeekDay(time.Now()))
}

// DeletePlan removes a plan that has no alert history.
func (s *PlanService) DeletePlan(id uint) error {
	plan, err := s.Plans.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPlanNotFound
	}
	if err != nil {
		return err
	}

	count, err := s.Plans.AlertCount(plan.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &IntegrityError{Entity: "weekly stock plan", ID: plan.ID, Rows: count, Dependent: "low stock alert(s)"}
	}
	return s.Plans.Delete(plan.ID)
}

// WeeklyStockOuts groups the stock-out history into Monday-Sunday buckets per
// product, the report planners use to calibrate the next week's quantities.
func (s *PlanService) WeeklyStockOuts() ([]WeeklyStockOut, error) {
	outs, err := s.Ledger.StockOutsSince(time.Time{})
	if err != nil {
		return nil, err
	}

	type bucketKey struct {
		productID uint
		weekStart string
	}
	buckets := make(map[bucketKey]*WeeklyStockOut)
	for _, txn := range outs {
		weekStart, weekEnd := WeekBounds(txn.TransactionDate)
		key := bucketKey{txn.ProductID, weekStart.Format("2006-01-02")}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &WeeklyStockOut{
				ProductID:     txn.ProductID,
				WeekStartDate: weekStart.Format("2006-01-02"),
				WeekEndDate:   WeekDay(weekEnd).Format("2006-01-02"),
			}
			buckets[key] = bucket
		}
		bucket.OutQuantity = bucket.OutQuantity.Add(txn.Quantity)
	}

	result := make([]WeeklyStockOut, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ProductID != result[j].ProductID {
			return result[i].ProductID < result[j].ProductID
		}
		return result[i].WeekStartDate < result[j].WeekStartDate
	})
	return result, nil
}
