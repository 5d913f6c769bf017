package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ ENUMS & TYPES ============
type TransactionType string

const (
	TransactionTypeStockIn  TransactionType = "stock_in"
	TransactionTypeStockOut TransactionType = "stock_out"
)

type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "low"
	AlertLevelCritical AlertLevel = "critical"
)

// ============ PRODUCT REGISTRY ============
// Product owns the canonical stock balance. CurrentStock is mutated only by
// the stock transaction processor; every other component treats it as read-only.
type Product struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(200);not null;index" json:"name"`

	// Unit the balance is stored in (kg, g, l, ml, pcs).
	Unit string `gorm:"type:varchar(10);not null" json:"unit"`

	OpeningStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"openingStock"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"currentStock"`

	IsActive bool `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// ============ LEDGER ENTRY ============
// StockTransaction is append-only: never updated or deleted once committed.
type StockTransaction struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ProductID uint     `gorm:"not null;index:idx_txn_product_type_date" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`

	Type TransactionType `gorm:"type:varchar(20);not null;index:idx_txn_product_type_date" json:"type"`

	// Quantity in the product's stored unit.
	Quantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`

	// Operator entry before conversion, kept for audit.
	OriginalQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"originalQuantity"`
	OriginalUnit     string          `gorm:"type:varchar(10);not null" json:"originalUnit"`

	// Balance snapshots at commit time.
	PreviousStock decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"previousStock"`
	NewStock      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"newStock"`

	TransactionDate time.Time `gorm:"type:timestamp;not null;index:idx_txn_product_type_date" json:"transactionDate"`

	// External reference codes, audit only.
	PONumber *string `gorm:"type:varchar(50)" json:"poNumber,omitempty"`
	SONumber *string `gorm:"type:varchar(50)" json:"soNumber,omitempty"`
	Remarks  *string `gorm:"type:text" json:"remarks,omitempty"`

	UserID uint `gorm:"not null" json:"userId"`

	CreatedAt time.Time `json:"createdAt"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// ============ WEEKLY STOCK PLAN ============
// One plan per (product, week). Derived view; never authoritative for stock.
type WeeklyStockPlan struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ProductID uint     `gorm:"not null;uniqueIndex:idx_plan_product_week" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`

	// Monday and Sunday of the ISO week the plan covers.
	WeekStartDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_plan_product_week" json:"weekStartDate"`
	WeekEndDate   time.Time `gorm:"type:date;not null;uniqueIndex:idx_plan_product_week" json:"weekEndDate"`

	// Planned consumption in the product's stored unit.
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"plannedQuantity"`

	// Snapshot of the balance when the plan was created.
	PresentStock decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"presentStock"`

	// Actual stock-out total observed in the prior ISO week.
	PreviousWeekStock decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"previousWeekStock"`

	Unit   string `gorm:"type:varchar(10);not null" json:"unit"`
	UserID uint   `gorm:"not null" json:"userId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (WeeklyStockPlan) TableName() string {
	return "weekly_stock_plans"
}

// ============ LOW STOCK ALERT ============
// At most one unresolved alert per (product, plan). Resolution is monotonic:
// a resolved alert is never reopened, a new one is raised instead.
type LowStockAlert struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ProductID uint     `gorm:"not null;index:idx_alert_open" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`

	WeeklyPlanID uint             `gorm:"not null;index:idx_alert_open" json:"weeklyPlanId"`
	WeeklyPlan   *WeeklyStockPlan `gorm:"foreignKey:WeeklyPlanID;constraint:OnDelete:RESTRICT" json:"-"`

	CurrentQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"currentQuantity"`
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"plannedQuantity"`

	AlertLevel AlertLevel `gorm:"type:varchar(10);not null" json:"alertLevel"`

	Resolved   bool       `gorm:"not null;default:false;index:idx_alert_open" json:"resolved"`
	AlertDate  time.Time  `gorm:"not null" json:"alertDate"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (LowStockAlert) TableName() string {
	return "low_stock_alerts"
}

// ============ SUPPORTING MODELS ============
// User exists for audit attribution only; authentication lives outside this core.
type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string `gorm:"type:varchar(100);unique;not null" json:"username"`
	Email     string `gorm:"type:varchar(200)" json:"email"`
	FirstName string `gorm:"type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"type:varchar(100)" json:"lastName"`
	IsActive  bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
