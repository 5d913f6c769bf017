package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Akas679/Inventory-web/src/services"
	"github.com/Akas679/Inventory-web/src/units"
)

// respondError translates service errors into HTTP status codes. Unknown
// errors deliberately surface as a generic 500: internals stay in the logs.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var unitErr *units.UnsupportedUnitError
	var integrityErr *services.IntegrityError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &unitErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": unitErr.Error()})
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrAlertNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &integrityErr),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrDuplicatePlan),
		errors.Is(err, services.ErrProductInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConcurrentUpdate):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requestUserID reads the audit identity from the X-User-ID header. Zero means
// the header is missing or malformed; services reject that during validation.
func requestUserID(c *gin.Context) uint {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// parseDate accepts RFC3339 or plain YYYY-MM-DD.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// parseRangeEnd parses a range upper bound. A plain date is inclusive of its
// whole day; a full timestamp is taken as given.
func parseRangeEnd(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location()), nil
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
