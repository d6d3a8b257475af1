package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-api/internal/models"
)

// GetLowStockAlerts computes low-stock alerts for every product whose
// quantity has fallen to or below its threshold in any warehouse
func (h *InventoryHandler) GetLowStockAlerts(c *gin.Context) {
	companyID, ok := parseCompanyID(c)
	if !ok {
		return
	}

	alerts, err := h.alerts.ComputeLowStockAlerts(c.Request.Context(), companyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if alerts == nil {
		alerts = []models.LowStockAlert{}
	}

	c.JSON(http.StatusOK, models.LowStockAlertResponse{
		Success: true,
		Data:    alerts,
		Count:   len(alerts),
	})
}
