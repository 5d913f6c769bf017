package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
	"github.com/Akas679/Inventory-web/src/requests"
	"github.com/Akas679/Inventory-web/src/services"
	"github.com/Akas679/Inventory-web/src/units"
)

type StockHandler struct {
	Service *services.StockService
}

// ============ SINGLE MOVEMENTS ============

// StockIn - Record one incoming movement
func (h *StockHandler) StockIn(c *gin.Context) {
	h.applySingle(c, models.TransactionTypeStockIn)
}

// StockOut - Record one outgoing movement
func (h *StockHandler) StockOut(c *gin.Context) {
	h.applySingle(c, models.TransactionTypeStockOut)
}

func (h *StockHandler) applySingle(c *gin.Context, txnType models.TransactionType) {
	var req requests.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var txnDate time.Time
	if req.TransactionDate != nil && *req.TransactionDate != "" {
		parsed, err := parseDate(*req.TransactionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transactionDate format. Use YYYY-MM-DD or RFC3339"})
			return
		}
		txnDate = parsed
	}

	txn, err := h.Service.ApplyMovement(services.MovementRequest{
		ProductID:       req.ProductID,
		Type:            txnType,
		Quantity:        req.Quantity,
		Unit:            units.Unit(req.Unit),
		PONumber:        req.PONumber,
		SONumber:        req.SONumber,
		Remarks:         req.Remarks,
		UserID:          requestUserID(c),
		TransactionDate: txnDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock movement recorded successfully",
		"data":    txn,
	})
}

// ============ BATCH MOVEMENTS ============

// BatchStockIn - One purchase document covering several products
func (h *StockHandler) BatchStockIn(c *gin.Context) {
	h.applyBatch(c, models.TransactionTypeStockIn)
}

// BatchStockOut - One sales document covering several products
func (h *StockHandler) BatchStockOut(c *gin.Context) {
	h.applyBatch(c, models.TransactionTypeStockOut)
}

func (h *StockHandler) applyBatch(c *gin.Context, txnType models.TransactionType) {
	var req requests.BatchStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reference := req.PONumber
	if txnType == models.TransactionTypeStockOut {
		reference = req.SONumber
	}

	items := make([]services.BatchItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, services.BatchItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Unit:      units.Unit(p.Unit),
		})
	}

	applied, err := h.Service.ApplyBatch(txnType, items, reference, req.Remarks, requestUserID(c))
	if err != nil && len(applied) == 0 {
		respondError(c, err)
		return
	}

	// Partial success keeps the committed rows and reports the first failure.
	body := gin.H{
		"message":   "Batch processed",
		"succeeded": len(applied),
		"data":      applied,
	}
	status := http.StatusCreated
	if err != nil {
		body["error"] = err.Error()
		status = http.StatusMultiStatus
	}
	c.JSON(status, body)
}

// ============ HISTORY ============

// GetTransactions - Filtered ledger history, newest first
func (h *StockHandler) GetTransactions(c *gin.Context) {
	var filter repositories.TransactionFilter

	if raw := c.Query("productId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}
		filter.ProductID = uint(id)
	}
	if raw := c.Query("type"); raw != "" {
		t := models.TransactionType(raw)
		if t != models.TransactionTypeStockIn && t != models.TransactionTypeStockOut {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be stock_in or stock_out"})
			return
		}
		filter.Type = t
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		filter.UserID = uint(id)
	}
	if raw := c.Query("fromDate"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fromDate format. Use YYYY-MM-DD or RFC3339"})
			return
		}
		filter.FromDate = from
	}
	if raw := c.Query("toDate"); raw != "" {
		to, err := parseRangeEnd(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toDate format. Use YYYY-MM-DD or RFC3339"})
			return
		}
		filter.ToDate = to
	}

	transactions, err := h.Service.ListTransactions(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  transactions,
		"total": len(transactions),
	})
}
