package locations

import (
	"net/http"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"
	"labhouse/pkg/roles"
	"labhouse/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LocationHandler struct {
	repo *LocationRepository
	log  *zap.Logger
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, log *zap.Logger) {
	handler := LocationHandler{
		repo: NewLocationRepository(r),
		log:  log,
	}

	router.GET("/locations", handler.GetLocations)
	router.POST("/locations",
		security.JWTMiddleware(), security.RequireRole(roles.LabAssistant),
		handler.CreateLocation)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.repo.GetLocations()
	if err != nil {
		h.log.Error("unable to list locations", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve locations"})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Details string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	location := models.Location{Name: req.Name, Details: req.Details}
	if err := h.repo.PersistLocation(&location); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, location)
}
