package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Akas679/Inventory-web/src/requests"
	"github.com/Akas679/Inventory-web/src/services"
	"github.com/Akas679/Inventory-web/src/units"
)

type PlanHandler struct {
	Service *services.PlanService
}

// CreatePlans - Accepts one plan object or an array of them; all-or-nothing
func (h *PlanHandler) CreatePlans(c *gin.Context) {
	var items []requests.PlanItemRequest
	if err := c.ShouldBindBodyWith(&items, binding.JSON); err != nil {
		var single requests.PlanItemRequest
		if err := c.ShouldBindBodyWith(&single, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items = []requests.PlanItemRequest{single}
	}

	reqs := make([]services.PlanRequest, 0, len(items))
	for _, item := range items {
		weekStart, err := parseDate(item.WeekStartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekStartDate format. Use YYYY-MM-DD or RFC3339"})
			return
		}
		var weekEnd time.Time
		if item.WeekEndDate != "" {
			weekEnd, err = parseDate(item.WeekEndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekEndDate format. Use YYYY-MM-DD or RFC3339"})
				return
			}
		}
		reqs = append(reqs, services.PlanRequest{
			ProductID:       item.ProductID,
			WeekStartDate:   weekStart,
			WeekEndDate:     weekEnd,
			PlannedQuantity: item.PlannedQuantity,
			Unit:            units.Unit(item.Unit),
		})
	}

	plans, err := h.Service.CreatePlans(reqs, requestUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Weekly stock plans created successfully",
		"data":    plans,
	})
}

// ListPlans - All plans, most recent week first
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.Service.ListPlans()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans, "total": len(plans)})
}

// CurrentWeekPlans - Plans covering the current ISO week
func (h *PlanHandler) CurrentWeekPlans(c *gin.Context) {
	plans, err := h.Service.CurrentWeekPlans()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans, "total": len(plans)})
}

// UpdatePlan - Adjust the planned quantity
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req requests.PlanUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.Service.UpdatePlan(id, services.PlanUpdateRequest{
		PlannedQuantity: req.PlannedQuantity,
		Unit:            units.Unit(req.Unit),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Weekly stock plan updated successfully",
		"data":    plan,
	})
}

// DeletePlan - Blocked while alert history references the plan
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Service.DeletePlan(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Weekly stock plan deleted successfully"})
}

// GetWeeklyStockOuts - Stock-out history grouped into Monday-Sunday buckets
func (h *PlanHandler) GetWeeklyStockOuts(c *gin.Context) {
	buckets, err := h.Service.WeeklyStockOuts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":         buckets,
		"total":        len(buckets),
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
