package inventory

import (
	"net/http"
	"strconv"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/roles"
	"labhouse/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ItemHandler struct {
	repo     *ItemRepository
	auditLog *auditlog.Auditlog
	log      *zap.Logger
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, a *auditlog.Auditlog, log *zap.Logger) {
	handler := ItemHandler{
		repo:     NewItemRepository(r),
		auditLog: a,
		log:      log,
	}
	categoryHandler := CategoryHandler{
		repo: NewCategoryRepository(r),
		log:  log,
	}

	router.GET("/items", handler.GetItems)
	router.GET("/items/:id", handler.GetItem)
	router.POST("/items",
		security.JWTMiddleware(), security.RequireRole(roles.LabAssistant),
		handler.CreateItem)
	router.PATCH("/items/:id",
		security.JWTMiddleware(), security.RequireRole(roles.LabAssistant),
		handler.UpdateItem)
	router.PATCH("/items/:id/quantity",
		security.JWTMiddleware(), security.RequireRole(roles.Admin),
		handler.SetQuantity)
	router.DELETE("/items/:id",
		security.JWTMiddleware(), security.RequireRole(roles.Admin),
		handler.DeleteItem)

	router.GET("/categories", categoryHandler.GetCategories)
	router.POST("/categories",
		security.JWTMiddleware(), security.RequireRole(roles.LabAssistant),
		categoryHandler.CreateCategory)
	router.DELETE("/categories/:id",
		security.JWTMiddleware(), security.RequireRole(roles.Admin),
		categoryHandler.DeleteCategory)
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	var query fetchItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	items, err := h.repo.GetItems(&query)
	if err != nil {
		h.log.Error("unable to list items", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	item, err := h.repo.GetItem(id)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.PersistItem(req)
	if err != nil {
		h.log.Error("unable to create item", zap.Error(err))
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.auditLog.Log("create", &actor.ID, req, item)

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	item, err := h.repo.UpdateItem(id, req)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.auditLog.Log("update", &actor.ID, req, item)

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) SetQuantity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if *req.Quantity < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Quantity must not be negative"})
		return
	}

	if err := h.repo.SetQuantity(id, *req.Quantity); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	item, err := h.repo.GetItem(id)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.auditLog.Log("quantity_adjustment", &actor.ID, req, item)

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	item, err := h.repo.GetItem(id)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	canRemove, err := h.repo.CanRemoveItem(id)
	if err != nil {
		h.log.Error("unable to verify item removal", zap.Int("item_id", id), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to verify item removal"})
		return
	}
	if !canRemove {
		conflict := &apperrors.ConflictError{Resource: "item", Reason: "item has open borrowing records"}
		c.AbortWithStatusJSON(apperrors.HTTPStatus(conflict), gin.H{"error": conflict.Error()})
		return
	}

	if err := h.repo.RemoveItem(id); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.auditLog.Log("delete", &actor.ID, nil, item)

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}
