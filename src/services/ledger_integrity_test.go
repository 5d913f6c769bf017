package services_test

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
	"github.com/Akas679/Inventory-web/src/services"
	"github.com/Akas679/Inventory-web/src/units"
)

// The scenarios below need a live postgres. Point TEST_DATABASE_URL at a
// throwaway database to enable them; without it every scenario is skipped.
var (
	testDB           *gorm.DB
	testUserID       uint
	testStockService *services.StockService
	testPlanService  *services.PlanService
	testAlertService *services.AlertService
	testProdService  *services.ProductService
)

func setupTestDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}

	db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.StockTransaction{},
		&models.WeeklyStockPlan{},
		&models.LowStockAlert{},
	)
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_open_pair ON low_stock_alerts (product_id, weekly_plan_id) WHERE NOT resolved")
	return db
}

func cleanupTestDB(db *gorm.DB) {
	db.Exec("TRUNCATE low_stock_alerts, weekly_stock_plans, stock_transactions, products, users RESTART IDENTITY CASCADE")
}

func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		fmt.Println("Setting up test database...")
		testDB = setupTestDB(dsn)
		cleanupTestDB(testDB)

		user := models.User{Username: "tester"}
		testDB.Create(&user)
		testUserID = user.ID

		log := zap.NewNop()
		productRepo := &repositories.ProductRepository{DB: testDB}
		ledgerRepo := &repositories.LedgerRepository{DB: testDB}
		planRepo := &repositories.PlanRepository{DB: testDB}
		alertRepo := &repositories.AlertRepository{DB: testDB}

		testStockService = &services.StockService{DB: testDB, Products: productRepo, Ledger: ledgerRepo, Logger: log}
		testPlanService = &services.PlanService{DB: testDB, Products: productRepo, Ledger: ledgerRepo, Plans: planRepo, Logger: log}
		testAlertService = &services.AlertService{DB: testDB, Products: productRepo, Plans: planRepo, Alerts: alertRepo, Logger: log}
		testProdService = &services.ProductService{DB: testDB, Products: productRepo, Logger: log}
	}

	code := m.Run()

	if testDB != nil {
		cleanupTestDB(testDB)
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
}

func createProduct(t *testing.T, name string, unit units.Unit, opening string) *models.Product {
	t.Helper()
	product, err := testProdService.CreateProduct(services.ProductCreateRequest{
		Name:         name,
		Unit:         unit,
		OpeningStock: decimal.RequireFromString(opening),
	})
	require.NoError(t, err)
	return product
}

// ============ TEST SCENARIO 1: MOVEMENTS & CONVERSION ============
func TestStockMovementFlow(t *testing.T) {
	requireDB(t)
	product := createProduct(t, "Flour", units.Kilogram, "10")

	t.Run("SC1: stock in converts grams into the stored unit", func(t *testing.T) {
		txn, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockIn,
			Quantity:  decimal.RequireFromString("2500"),
			Unit:      units.Gram,
			UserID:    testUserID,
		})
		require.NoError(t, err)

		assert.True(t, txn.Quantity.Equal(decimal.RequireFromString("2.5")))
		assert.True(t, txn.PreviousStock.Equal(decimal.RequireFromString("10")))
		assert.True(t, txn.NewStock.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, "g", txn.OriginalUnit)

		fresh, err := testProdService.GetProduct(product.ID)
		require.NoError(t, err)
		assert.True(t, fresh.CurrentStock.Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("SC2: stock out reduces the balance", func(t *testing.T) {
		txn, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockOut,
			Quantity:  decimal.RequireFromString("0.5"),
			Unit:      units.Kilogram,
			UserID:    testUserID,
		})
		require.NoError(t, err)
		assert.True(t, txn.NewStock.Equal(decimal.RequireFromString("12")))
	})

	t.Run("SC3: stock out past zero is rejected and changes nothing", func(t *testing.T) {
		before, err := testProdService.GetProduct(product.ID)
		require.NoError(t, err)

		_, err = testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockOut,
			Quantity:  decimal.RequireFromString("9999"),
			Unit:      units.Kilogram,
			UserID:    testUserID,
		})
		assert.ErrorIs(t, err, services.ErrInsufficientStock)

		after, err := testProdService.GetProduct(product.ID)
		require.NoError(t, err)
		assert.True(t, after.CurrentStock.Equal(before.CurrentStock))
	})

	t.Run("SC4: cross-family unit is rejected before any write", func(t *testing.T) {
		_, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockIn,
			Quantity:  decimal.RequireFromString("1"),
			Unit:      units.Liter,
			UserID:    testUserID,
		})
		var unitErr *units.UnsupportedUnitError
		assert.True(t, errors.As(err, &unitErr))
	})

	t.Run("SC5: ledger snapshots chain previous to new stock", func(t *testing.T) {
		history, err := testStockService.ListTransactions(repositories.TransactionFilter{ProductID: product.ID})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(history), 2)

		// Newest first: each row's previous stock equals the next row's new stock.
		for i := 0; i < len(history)-1; i++ {
			assert.True(t, history[i].PreviousStock.Equal(history[i+1].NewStock),
				"snapshot chain broken between rows %d and %d", i, i+1)
		}
	})
}

// ============ TEST SCENARIO 2: BATCH MOVEMENTS ============
func TestBatchMovements(t *testing.T) {
	requireDB(t)
	p1 := createProduct(t, "Sugar", units.Kilogram, "5")
	p2 := createProduct(t, "Milk", units.Liter, "2")

	t.Run("SC6: batch failure keeps earlier successes", func(t *testing.T) {
		applied, err := testStockService.ApplyBatch(models.TransactionTypeStockOut,
			[]services.BatchItem{
				{ProductID: p1.ID, Quantity: decimal.RequireFromString("1"), Unit: units.Kilogram},
				{ProductID: p2.ID, Quantity: decimal.RequireFromString("50"), Unit: units.Liter},
			}, nil, nil, testUserID)

		assert.Len(t, applied, 1)
		assert.ErrorIs(t, err, services.ErrInsufficientStock)

		// The committed row carries an auto-generated reference.
		require.NotNil(t, applied[0].SONumber)
		assert.Contains(t, *applied[0].SONumber, "AUTO-")

		fresh, _ := testProdService.GetProduct(p1.ID)
		assert.True(t, fresh.CurrentStock.Equal(decimal.RequireFromString("4")))
	})

	t.Run("SC7: batch rows share one reference and timestamp", func(t *testing.T) {
		ref := "PO-1001"
		applied, err := testStockService.ApplyBatch(models.TransactionTypeStockIn,
			[]services.BatchItem{
				{ProductID: p1.ID, Quantity: decimal.RequireFromString("1"), Unit: units.Kilogram},
				{ProductID: p2.ID, Quantity: decimal.RequireFromString("1"), Unit: units.Liter},
			}, &ref, nil, testUserID)

		require.NoError(t, err)
		require.Len(t, applied, 2)
		assert.Equal(t, ref, *applied[0].PONumber)
		assert.Equal(t, ref, *applied[1].PONumber)
		assert.True(t, applied[0].TransactionDate.Equal(applied[1].TransactionDate))
	})
}

// ============ TEST SCENARIO 3: WEEKLY PLANS ============
func TestWeeklyPlans(t *testing.T) {
	requireDB(t)
	product := createProduct(t, "Rice", units.Kilogram, "100")
	weekStart, _ := services.WeekBounds(time.Now())

	t.Run("SC8: plan snapshots present stock and prior week consumption", func(t *testing.T) {
		// Consumption recorded in the prior week.
		prior := weekStart.AddDate(0, 0, -3)
		_, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID:       product.ID,
			Type:            models.TransactionTypeStockOut,
			Quantity:        decimal.RequireFromString("7"),
			Unit:            units.Kilogram,
			UserID:          testUserID,
			TransactionDate: prior,
		})
		require.NoError(t, err)

		plans, err := testPlanService.CreatePlans([]services.PlanRequest{{
			ProductID:       product.ID,
			WeekStartDate:   weekStart,
			PlannedQuantity: decimal.RequireFromString("20"),
			Unit:            units.Kilogram,
		}}, testUserID)
		require.NoError(t, err)
		require.Len(t, plans, 1)

		assert.True(t, plans[0].PresentStock.Equal(decimal.RequireFromString("93")))
		assert.True(t, plans[0].PreviousWeekStock.Equal(decimal.RequireFromString("7")))
	})

	t.Run("SC9: duplicate week is rejected", func(t *testing.T) {
		_, err := testPlanService.CreatePlans([]services.PlanRequest{{
			ProductID:       product.ID,
			WeekStartDate:   weekStart,
			PlannedQuantity: decimal.RequireFromString("30"),
			Unit:            units.Kilogram,
		}}, testUserID)
		assert.ErrorIs(t, err, services.ErrDuplicatePlan)
	})

	t.Run("SC10: current week listing includes the plan", func(t *testing.T) {
		plans, err := testPlanService.CurrentWeekPlans()
		require.NoError(t, err)

		found := false
		for _, plan := range plans {
			if plan.ProductID == product.ID {
				found = true
			}
		}
		assert.True(t, found)
	})
}

// ============ TEST SCENARIO 4: LOW STOCK ALERTS ============
func TestLowStockAlerts(t *testing.T) {
	requireDB(t)
	product := createProduct(t, "Yeast", units.Gram, "100")
	weekStart, _ := services.WeekBounds(time.Now())

	_, err := testPlanService.CreatePlans([]services.PlanRequest{{
		ProductID:       product.ID,
		WeekStartDate:   weekStart,
		PlannedQuantity: decimal.RequireFromString("80"),
		Unit:            units.Gram,
	}}, testUserID)
	require.NoError(t, err)

	findAlert := func(t *testing.T) *models.LowStockAlert {
		t.Helper()
		alerts, err := testAlertService.Unresolved()
		require.NoError(t, err)
		for i := range alerts {
			if alerts[i].ProductID == product.ID {
				return &alerts[i]
			}
		}
		return nil
	}

	t.Run("SC11: healthy stock raises nothing", func(t *testing.T) {
		_, err := testAlertService.CheckAndRaise()
		require.NoError(t, err)
		assert.Nil(t, findAlert(t))
	})

	t.Run("SC12: dropping below plan raises a low alert", func(t *testing.T) {
		_, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockOut,
			Quantity:  decimal.RequireFromString("30"),
			Unit:      units.Gram,
			UserID:    testUserID,
		})
		require.NoError(t, err)

		_, err = testAlertService.CheckAndRaise()
		require.NoError(t, err)

		alert := findAlert(t)
		require.NotNil(t, alert)
		assert.Equal(t, models.AlertLevelLow, alert.AlertLevel)
	})

	t.Run("SC13: falling to half the plan escalates in place", func(t *testing.T) {
		existing := findAlert(t)
		require.NotNil(t, existing)

		_, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockOut,
			Quantity:  decimal.RequireFromString("40"),
			Unit:      units.Gram,
			UserID:    testUserID,
		})
		require.NoError(t, err)

		_, err = testAlertService.CheckAndRaise()
		require.NoError(t, err)

		alert := findAlert(t)
		require.NotNil(t, alert)
		assert.Equal(t, existing.ID, alert.ID, "expected the open alert to escalate, not duplicate")
		assert.Equal(t, models.AlertLevelCritical, alert.AlertLevel)
	})

	t.Run("SC14: restocking auto-resolves the alert", func(t *testing.T) {
		_, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockIn,
			Quantity:  decimal.RequireFromString("100"),
			Unit:      units.Gram,
			UserID:    testUserID,
		})
		require.NoError(t, err)

		_, err = testAlertService.CheckAndRaise()
		require.NoError(t, err)
		assert.Nil(t, findAlert(t))
	})

	t.Run("SC15: manual resolve is idempotent", func(t *testing.T) {
		var any models.LowStockAlert
		require.NoError(t, testDB.Where("product_id = ?", product.ID).First(&any).Error)

		first, err := testAlertService.Resolve(any.ID)
		require.NoError(t, err)
		assert.True(t, first.Resolved)

		second, err := testAlertService.Resolve(any.ID)
		require.NoError(t, err)
		assert.True(t, second.Resolved)
		assert.Equal(t, first.ResolvedAt.Unix(), second.ResolvedAt.Unix())
	})
}

// ============ TEST SCENARIO 5: DELETE GUARDS ============
func TestDeleteGuards(t *testing.T) {
	requireDB(t)

	t.Run("SC16: product with history cannot be deleted", func(t *testing.T) {
		product := createProduct(t, "Salt", units.Gram, "50")
		_, err := testStockService.ApplyMovement(services.MovementRequest{
			ProductID: product.ID,
			Type:      models.TransactionTypeStockOut,
			Quantity:  decimal.RequireFromString("5"),
			Unit:      units.Gram,
			UserID:    testUserID,
		})
		require.NoError(t, err)

		err = testProdService.DeleteProduct(product.ID)
		var integrityErr *services.IntegrityError
		assert.True(t, errors.As(err, &integrityErr))
	})

	t.Run("SC17: product without history deletes cleanly", func(t *testing.T) {
		product := createProduct(t, "Pepper", units.Gram, "50")
		require.NoError(t, testProdService.DeleteProduct(product.ID))

		_, err := testProdService.GetProduct(product.ID)
		assert.ErrorIs(t, err, services.ErrProductNotFound)
	})
}

// ============ TEST SCENARIO 6: CONCURRENT MOVEMENTS ============
func TestConcurrentStockOuts(t *testing.T) {
	requireDB(t)
	product := createProduct(t, "Butter", units.Kilogram, "10")

	t.Run("SC18: concurrent stock outs never lose an update", func(t *testing.T) {
		const workers = 5
		results := make(chan error, workers)

		for i := 0; i < workers; i++ {
			go func() {
				_, err := testStockService.ApplyMovement(services.MovementRequest{
					ProductID: product.ID,
					Type:      models.TransactionTypeStockOut,
					Quantity:  decimal.RequireFromString("2"),
					Unit:      units.Kilogram,
					UserID:    testUserID,
				})
				results <- err
			}()
		}

		succeeded := 0
		for i := 0; i < workers; i++ {
			err := <-results
			if err == nil {
				succeeded++
				continue
			}
			// Exhausted retries surface as a transient failure, never as a
			// silently dropped movement.
			assert.ErrorIs(t, err, services.ErrConcurrentUpdate)
		}

		fresh, err := testProdService.GetProduct(product.ID)
		require.NoError(t, err)
		want := decimal.NewFromInt(10).Sub(decimal.NewFromInt(2).Mul(decimal.NewFromInt(int64(succeeded))))
		assert.True(t, fresh.CurrentStock.Equal(want),
			"want %s after %d successes, got %s", want, succeeded, fresh.CurrentStock)

		// Ledger rows match committed movements exactly.
		history, err := testStockService.ListTransactions(repositories.TransactionFilter{ProductID: product.ID})
		require.NoError(t, err)
		assert.Len(t, history, succeeded)
	})
}

// ============ TEST SCENARIO 7: CONCURRENT SWEEPS & CREATES ============
func TestConcurrentAlertSweeps(t *testing.T) {
	requireDB(t)
	product := createProduct(t, "Honey", units.Gram, "30")
	weekStart, _ := services.WeekBounds(time.Now())

	_, err := testPlanService.CreatePlans([]services.PlanRequest{{
		ProductID:       product.ID,
		WeekStartDate:   weekStart,
		PlannedQuantity: decimal.RequireFromString("80"),
		Unit:            units.Gram,
	}}, testUserID)
	require.NoError(t, err)

	t.Run("SC19: racing sweeps raise one alert, not two", func(t *testing.T) {
		const sweeps = 4
		done := make(chan error, sweeps)
		for i := 0; i < sweeps; i++ {
			go func() {
				_, err := testAlertService.CheckAndRaise()
				done <- err
			}()
		}
		for i := 0; i < sweeps; i++ {
			require.NoError(t, <-done)
		}

		var count int64
		require.NoError(t, testDB.Model(&models.LowStockAlert{}).
			Where("product_id = ? AND resolved = ?", product.ID, false).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestConcurrentPlanCreates(t *testing.T) {
	requireDB(t)
	product := createProduct(t, "Cocoa", units.Gram, "500")
	weekStart, _ := services.WeekBounds(time.Now())

	t.Run("SC20: racing creates for one week yield one plan and a conflict", func(t *testing.T) {
		const writers = 2
		done := make(chan error, writers)
		for i := 0; i < writers; i++ {
			go func() {
				_, err := testPlanService.CreatePlans([]services.PlanRequest{{
					ProductID:       product.ID,
					WeekStartDate:   weekStart,
					PlannedQuantity: decimal.RequireFromString("100"),
					Unit:            units.Gram,
				}}, testUserID)
				done <- err
			}()
		}

		succeeded := 0
		for i := 0; i < writers; i++ {
			err := <-done
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, services.ErrDuplicatePlan)
		}
		assert.Equal(t, 1, succeeded)

		var count int64
		require.NoError(t, testDB.Model(&models.WeeklyStockPlan{}).
			Where("product_id = ?", product.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
