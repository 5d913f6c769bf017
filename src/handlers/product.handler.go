package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Akas679/Inventory-web/src/requests"
	"github.com/Akas679/Inventory-web/src/services"
	"github.com/Akas679/Inventory-web/src/units"
)

type ProductHandler struct {
	Service *services.ProductService
}

// CreateProduct - Register a product; opening stock seeds the balance
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req requests.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Service.CreateProduct(services.ProductCreateRequest{
		Name:         req.Name,
		Unit:         units.Unit(req.Unit),
		OpeningStock: req.OpeningStock,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    product,
	})
}

// GetProduct
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	product, err := h.Service.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

// ListProducts
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.Service.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "total": len(products)})
}

// SearchProducts - Case-insensitive name search via ?q=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.Service.SearchProducts(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "total": len(products)})
}

// UpdateProduct - Rename or toggle the active flag; the unit never changes
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req requests.ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.Service.UpdateProduct(id, services.ProductUpdateRequest{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// DeleteProduct - Blocked while ledger rows reference the product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
