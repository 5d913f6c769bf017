package requests

import (
	"github.com/shopspring/decimal"
)

// ============ PRODUCT ============
type ProductCreateRequest struct {
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit" binding:"required,oneof=g kg ml l pcs"`
	OpeningStock decimal.Decimal `json:"openingStock"`
}

type ProductUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// ============ STOCK MOVEMENT ============
// Single movement. The quantity is interpreted in the given unit and converted
// into the product's stored unit before it is applied.
type StockMovementRequest struct {
	ProductID uint            `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"required,oneof=g kg ml l pcs"`

	PONumber *string `json:"poNumber,omitempty"`
	SONumber *string `json:"soNumber,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`

	// Optional backdated entry, YYYY-MM-DD or RFC3339. Empty means now.
	TransactionDate *string `json:"transactionDate,omitempty"`
}

// ============ BATCH MOVEMENT ============
type BatchItemRequest struct {
	ProductID uint            `json:"productId" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"required,oneof=g kg ml l pcs"`
}

// One purchase or sales document covering several products. A missing
// reference number gets an auto-generated one shared by every row.
type BatchStockRequest struct {
	Products []BatchItemRequest `json:"products" binding:"required,min=1,dive"`

	PONumber *string `json:"poNumber,omitempty"`
	SONumber *string `json:"soNumber,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`
}

// ============ WEEKLY STOCK PLAN ============
type PlanItemRequest struct {
	ProductID       uint            `json:"productId" binding:"required"`
	WeekStartDate   string          `json:"weekStartDate" binding:"required"`
	WeekEndDate     string          `json:"weekEndDate,omitempty"`
	PlannedQuantity decimal.Decimal `json:"plannedQuantity" binding:"required"`
	Unit            string          `json:"unit" binding:"required,oneof=g kg ml l pcs"`
}

type PlanUpdateRequest struct {
	PlannedQuantity decimal.Decimal `json:"plannedQuantity" binding:"required"`
	Unit            string          `json:"unit,omitempty" binding:"omitempty,oneof=g kg ml l pcs"`
}

// ============ USER ============
type UserCreateRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email,omitempty" binding:"omitempty,email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}
