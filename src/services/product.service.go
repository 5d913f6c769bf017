package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
	"github.com/Akas679/Inventory-web/src/units"
)

// ============ REQUEST STRUCTS ============
type ProductCreateRequest struct {
	Name         string
	Unit         units.Unit
	OpeningStock decimal.Decimal
}

type ProductUpdateRequest struct {
	Name     *string
	IsActive *bool
}

// ============ PRODUCT SERVICE ============
// ProductService owns the product registry. It never touches CurrentStock
// after creation; only the stock transaction processor moves the balance.
type ProductService struct {
	DB       *gorm.DB
	Products *repositories.ProductRepository
	Logger   *zap.Logger
}

// CreateProduct registers a product and seeds the balance from the opening
// stock.
func (s *ProductService) CreateProduct(req ProductCreateRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if !units.Valid(req.Unit) {
		return nil, &ValidationError{Field: "unit", Message: "must be one of g, kg, ml, l, pcs", Value: string(req.Unit)}
	}
	if req.OpeningStock.IsNegative() {
		return nil, &ValidationError{
			Field:   "openingStock",
			Message: "must not be negative",
			Value:   req.OpeningStock.String(),
		}
	}

	opening := units.Round(req.OpeningStock)
	product := &models.Product{
		Name:         name,
		Unit:         string(req.Unit),
		OpeningStock: opening,
		CurrentStock: opening,
		IsActive:     true,
	}
	if err := s.Products.Create(product); err != nil {
		return nil, err
	}

	s.Logger.Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("unit", product.Unit),
		zap.String("opening_stock", product.OpeningStock.String()),
	)
	return product, nil
}

// GetProduct
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.Products.GetByID(s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts
func (s *ProductService) ListProducts() ([]models.Product, error) {
	return s.Products.List()
}

// SearchProducts - Case-insensitive name search
func (s *ProductService) SearchProducts(query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Products.List()
	}
	return s.Products.Search(query)
}

// UpdateProduct changes name or active flag. The stored unit is immutable:
// changing it would silently reinterpret every historical quantity.
func (s *ProductService) UpdateProduct(id uint, req ProductUpdateRequest) (*models.Product, error) {
	product, err := s.Products.GetByID(s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Field: "name", Message: "must not be empty"}
		}
		product.Name = name
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.Products.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product only when no ledger rows reference it;
// otherwise the caller gets a descriptive conflict and should deactivate
// instead.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.Products.GetByID(s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	count, err := s.Products.TransactionCount(product.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &IntegrityError{Entity: "product", ID: product.ID, Rows: count, Dependent: "stock transaction(s)"}
	}

	if err := s.Products.Delete(product.ID); err != nil {
		return err
	}
	s.Logger.Info("product deleted", zap.Uint("product_id", product.ID))
	return nil
}
