package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Akas679/Inventory-web/src/services"
)

type AlertHandler struct {
	Service *services.AlertService
}

// GetLowStockAlerts - All unresolved alerts, newest first
func (h *AlertHandler) GetLowStockAlerts(c *gin.Context) {
	alerts, err := h.Service.Unresolved()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts, "total": len(alerts)})
}

// CheckLowStock - Evaluate every active plan and reconcile its alert state
func (h *AlertHandler) CheckLowStock(c *gin.Context) {
	result, err := h.Service.CheckAndRaise()
	if err != nil {
		respondError(c, err)
		return
	}

	alerts, err := h.Service.Unresolved()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Low stock check completed",
		"checked":   result.Checked,
		"newAlerts": result.Raised,
		"updated":   result.Updated,
		"resolved":  result.Resolved,
		"alerts":    alerts,
	})
}

// ResolveAlert - Mark an alert resolved; resolving twice is a no-op success
func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	alert, err := h.Service.Resolve(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert resolved successfully",
		"data":    alert,
	})
}
