package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/metrics"
	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
	"github.com/Akas679/Inventory-web/src/units"
)

// maxBalanceRetries bounds the compare-and-swap retry loop before the request
// is surfaced as a transient failure.
const maxBalanceRetries = 3

// errBalanceConflict signals that another writer committed between our read
// and the conditional balance write. Internal; never leaves ApplyMovement.
var errBalanceConflict = errors.New("balance changed during apply")

// ============ REQUEST STRUCTS ============
type MovementRequest struct {
	ProductID uint
	Type      models.TransactionType
	Quantity  decimal.Decimal
	Unit      units.Unit
	PONumber  *string
	SONumber  *string
	Remarks   *string
	UserID    uint

	// Zero means "now". Batches pass one shared timestamp.
	TransactionDate time.Time
}

type BatchItem struct {
	ProductID uint
	Quantity  decimal.Decimal
	Unit      units.Unit
}

// ============ STOCK SERVICE ============
// StockService is the stock transaction processor: it is the only component
// allowed to mutate Product.CurrentStock, and it appends exactly one ledger
// row per committed movement.
type StockService struct {
	DB       *gorm.DB
	Products *repositories.ProductRepository
	Ledger   *repositories.LedgerRepository
	Logger   *zap.Logger
}

// ApplyMovement validates and applies a single stock-in or stock-out movement.
// The read-modify-write runs inside one database transaction per attempt; a
// lost CAS aborts the transaction and the whole sequence retries, bounded.
// This engine does not deduplicate retried requests by id; exactly-once
// delivery is a transport concern.
func (s *StockService) ApplyMovement(req MovementRequest) (*models.StockTransaction, error) {
	if err := validateMovement(req); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxBalanceRetries; attempt++ {
		txn, err := s.applyOnce(req)
		if errors.Is(err, errBalanceConflict) {
			metrics.RecordBalanceConflict()
			s.Logger.Warn("stock balance conflict, retrying",
				zap.Uint("product_id", req.ProductID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.RecordStockMovement(string(req.Type))
		s.Logger.Info("stock movement applied",
			zap.Uint("product_id", req.ProductID),
			zap.String("type", string(req.Type)),
			zap.String("quantity", txn.Quantity.String()),
			zap.String("new_stock", txn.NewStock.String()),
			zap.Uint("user_id", req.UserID),
		)
		return txn, nil
	}

	return nil, ErrConcurrentUpdate
}

// applyOnce performs one attempt of the read-modify-write. The balance update
// and the ledger append commit together or not at all.
func (s *StockService) applyOnce(req MovementRequest) (*models.StockTransaction, error) {
	var created *models.StockTransaction

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		product, err := s.Products.GetByID(tx, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		if !product.IsActive {
			return ErrProductNotFound
		}

		quantity, err := units.Convert(req.Quantity, req.Unit, units.Unit(product.Unit))
		if err != nil {
			return err
		}
		if !quantity.IsPositive() {
			return &ValidationError{
				Field:   "quantity",
				Message: "must remain positive after unit conversion",
				Value:   req.Quantity.String(),
			}
		}

		previous := product.CurrentStock
		var next decimal.Decimal
		switch req.Type {
		case models.TransactionTypeStockIn:
			next = previous.Add(quantity)
		case models.TransactionTypeStockOut:
			next = previous.Sub(quantity)
			if next.IsNegative() {
				return ErrInsufficientStock
			}
		}

		rows, err := s.Products.CompareAndSwapStock(tx, product.ID, previous, next)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errBalanceConflict
		}

		txnDate := req.TransactionDate
		if txnDate.IsZero() {
			txnDate = time.Now().UTC()
		}

		created = &models.StockTransaction{
			ProductID:        product.ID,
			Type:             req.Type,
			Quantity:         quantity,
			OriginalQuantity: units.Round(req.Quantity),
			OriginalUnit:     string(req.Unit),
			PreviousStock:    previous,
			NewStock:         next,
			TransactionDate:  txnDate,
			PONumber:         req.PONumber,
			SONumber:         req.SONumber,
			Remarks:          req.Remarks,
			UserID:           req.UserID,
		}
		return s.Ledger.Append(tx, created)
	})

	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyBatch applies per-product movements sharing one reference number and
// one timestamp. Movements are applied independently: a failure on one product
// does not roll back movements already committed for others. The caller
// receives every success plus the first error encountered.
func (s *StockService) ApplyBatch(txnType models.TransactionType, items []BatchItem,
	reference *string, remarks *string, userID uint) ([]models.StockTransaction, error) {

	if len(items) == 0 {
		return nil, &ValidationError{Field: "products", Message: "at least one movement is required"}
	}

	ref := reference
	if ref == nil || *ref == "" {
		generated := "AUTO-" + uuid.NewString()
		ref = &generated
	}
	batchDate := time.Now().UTC()

	applied := make([]models.StockTransaction, 0, len(items))
	var firstErr error

	for _, item := range items {
		req := MovementRequest{
			ProductID:       item.ProductID,
			Type:            txnType,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			Remarks:         remarks,
			UserID:          userID,
			TransactionDate: batchDate,
		}
		switch txnType {
		case models.TransactionTypeStockIn:
			req.PONumber = ref
		case models.TransactionTypeStockOut:
			req.SONumber = ref
		}

		txn, err := s.ApplyMovement(req)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("product %d: %w", item.ProductID, err)
			}
			continue
		}
		applied = append(applied, *txn)
	}

	return applied, firstErr
}

// ListTransactions returns filtered ledger history, newest first.
func (s *StockService) ListTransactions(filter repositories.TransactionFilter) ([]models.StockTransaction, error) {
	return s.Ledger.ListTransactions(filter)
}

// validateMovement rejects malformed movements before any state is touched.
func validateMovement(req MovementRequest) error {
	if req.Type != models.TransactionTypeStockIn && req.Type != models.TransactionTypeStockOut {
		return &ValidationError{Field: "type", Message: "must be stock_in or stock_out", Value: string(req.Type)}
	}
	if !req.Quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Message: "must be greater than zero", Value: req.Quantity.String()}
	}
	if !units.Valid(req.Unit) {
		return &ValidationError{Field: "unit", Message: "must be one of g, kg, ml, l, pcs", Value: string(req.Unit)}
	}
	if req.UserID == 0 {
		return &ValidationError{Field: "userId", Message: "is required for audit attribution"}
	}
	return nil
}
