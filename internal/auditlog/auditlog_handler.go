package auditlog

import (
	"net/http"
	"strconv"

	"labhouse/internal/repository"
	"labhouse/pkg/roles"
	"labhouse/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditLogHandler struct {
	repo *AuditLogRepository
	log  *zap.Logger
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, log *zap.Logger) {
	handler := AuditLogHandler{
		repo: NewRepository(r),
		log:  log,
	}

	router.GET("/audit/:resource_type/:id",
		security.JWTMiddleware(), security.RequireRole(roles.Admin),
		handler.GetResourceLog)
}

func (h *AuditLogHandler) GetResourceLog(c *gin.Context) {
	resourceType := c.Param("resource_type")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid resource id"})
		return
	}

	logs, err := h.repo.GetResourceLog(id, resourceType)
	if err != nil {
		h.log.Error("unable to fetch audit log", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
