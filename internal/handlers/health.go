package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inventory-api/internal/repository"
)

type HealthHandler struct {
	db   *gorm.DB
	repo *repository.InventoryRepository
}

func NewHealthHandler(db *gorm.DB, repo *repository.InventoryRepository) *HealthHandler {
	return &HealthHandler{db: db, repo: repo}
}

// HealthCheck reports service liveness along with dependency status. The
// service stays healthy when Redis is down because caching is best-effort.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	health := gin.H{
		"status":  "healthy",
		"service": "inventory-api",
	}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		health["status"] = "unhealthy"
		health["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	} else {
		health["database"] = "connected"
	}

	if err := h.repo.RedisHealth(c.Request.Context()); err != nil {
		health["cache"] = "unavailable"
	} else {
		health["cache"] = "connected"
	}

	c.JSON(status, health)
}
