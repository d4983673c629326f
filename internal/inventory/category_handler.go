package inventory

import (
	"net/http"
	"strconv"

	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	repo *CategoryRepository
	log  *zap.Logger
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.repo.GetCategories()
	if err != nil {
		h.log.Error("unable to list categories", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	category, err := h.repo.PersistCategory(models.ItemCategory{Name: req.Name, Label: req.Label})
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	hasItems, err := h.repo.HasRelatedItems(id)
	if err != nil {
		h.log.Error("unable to verify category removal", zap.Int("category_id", id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to verify category removal"})
		return
	}
	if hasItems {
		conflict := &apperrors.ConflictError{Resource: "category", Reason: "items still reference this category"}
		c.AbortWithStatusJSON(apperrors.HTTPStatus(conflict), gin.H{"error": conflict.Error()})
		return
	}

	if err := h.repo.DeleteCategory(id); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
}
