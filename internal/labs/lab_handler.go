package labs

import (
	"net/http"
	"strconv"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/models"
	"labhouse/pkg/roles"
	"labhouse/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LabHandler struct {
	repo     *LabRepository
	auditLog *auditlog.Auditlog
	log      *zap.Logger
	scopes   map[string]Scope
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, a *auditlog.Auditlog, log *zap.Logger, scopeBuildings []string) {
	handler := LabHandler{
		repo:     NewLabRepository(r),
		auditLog: a,
		log:      log,
		scopes:   BuildScopes(scopeBuildings),
	}

	router.GET("/labs", handler.ListLabs)
	router.GET("/labs/scopes", handler.GetScopes)
	router.GET("/labs/:id", handler.GetLab)
	router.POST("/labs",
		security.JWTMiddleware(), security.RequireRole(roles.Admin),
		handler.CreateLab)
	router.PATCH("/labs/:id",
		security.JWTMiddleware(), security.RequireRole(roles.Admin),
		handler.UpdateLab)
	router.PATCH("/labs/:id/status",
		security.JWTMiddleware(), security.RequireRole(roles.LabAssistant),
		handler.ChangeLabStatus)
}

func (h *LabHandler) ListLabs(c *gin.Context) {
	var query listLabsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	state, err := query.ToFilterState(h.scopes)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	labs, err := h.repo.GetLabs()
	if err != nil {
		h.log.Error("unable to list laboratories", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve laboratories"})
		return
	}

	c.JSON(http.StatusOK, Filter(labs, state))
}

func (h *LabHandler) GetScopes(c *gin.Context) {
	scopes := make([]Scope, 0, len(h.scopes))
	for _, scope := range h.scopes {
		scopes = append(scopes, scope)
	}
	c.JSON(http.StatusOK, scopes)
}

func (h *LabHandler) GetLab(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid laboratory id"})
		return
	}

	lab, err := h.repo.GetLab(id)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lab)
}

func (h *LabHandler) CreateLab(c *gin.Context) {
	var req CreateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	lab, err := h.repo.PersistLab(req)
	if err != nil {
		h.log.Error("unable to create laboratory", zap.Error(err))
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.auditLog.Log("create", &actor.ID, req, lab)

	c.JSON(http.StatusCreated, lab)
}

func (h *LabHandler) UpdateLab(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid laboratory id"})
		return
	}

	var req UpdateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Type != nil && !models.LabType(*req.Type).IsValid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown laboratory type"})
		return
	}

	lab, err := h.repo.UpdateLab(id, req)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	go h.auditLog.Log("update", &actor.ID, req, lab)

	c.JSON(http.StatusOK, lab)
}

func (h *LabHandler) ChangeLabStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid laboratory id"})
		return
	}

	var req ChangeLabStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if !models.LabStatus(req.Status).IsValid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Status must be open or closed"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication claims"})
		return
	}
	if !roles.Authorize(roles.Role(actor.Role), roles.ActionChangeLabStatus) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	if err := h.repo.UpdateLabStatus(id, models.LabStatus(req.Status)); err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	lab := models.Laboratory{ID: id, Status: models.LabStatus(req.Status)}
	go h.auditLog.Log("status_change", &actor.ID, req, &lab)

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
