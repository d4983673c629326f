package borrowings

import (
	"net/http"
	"strconv"

	"labhouse/internal/inventory"
	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/roles"
	"labhouse/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BorrowingHandler struct {
	service *BorrowingService
	log     *zap.Logger
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, a *auditlog.Auditlog, log *zap.Logger, requiresApproval bool) {
	service := NewBorrowingService(
		r,
		NewBorrowingRepository(r),
		inventory.NewItemRepository(r),
		a,
		requiresApproval,
	)
	handler := BorrowingHandler{service: service, log: log}

	authorized := router.Group("/borrowings", security.JWTMiddleware())
	authorized.POST("", handler.RequestBorrow)
	authorized.GET("", handler.ListRecords)
	authorized.GET("/:id", handler.GetRecord)
	authorized.PATCH("/:id/approve", security.RequireRole(roles.LabAssistant), handler.Approve)
	authorized.PATCH("/:id/reject", security.RequireRole(roles.LabAssistant), handler.Reject)
	authorized.PATCH("/:id/return", handler.Return)
	authorized.PATCH("/:id/overdue", security.RequireRole(roles.LabAssistant), handler.MarkOverdue)
}

func (h *BorrowingHandler) RequestBorrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication claims"})
		return
	}

	rec, err := h.service.RequestBorrow(actor, req)
	if err != nil {
		h.log.Warn("borrow request failed", zap.Int("item_id", req.ItemID), zap.Error(err))
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *BorrowingHandler) ListRecords(c *gin.Context) {
	var query listBorrowingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication claims"})
		return
	}

	// Students only ever see their own records.
	if roles.Role(actor.Role) == roles.Student {
		query.BorrowerID = &actor.ID
	}

	records, err := h.service.ListRecords(query)
	if err != nil {
		h.log.Error("unable to list borrowing records", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve borrowing records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *BorrowingHandler) GetRecord(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	rec, err := h.service.GetRecord(id)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	actor, _ := security.ActorFromContext(c)
	if roles.Role(actor.Role) == roles.Student && rec.BorrowerID != actor.ID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *BorrowingHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	actor, _ := security.ActorFromContext(c)
	rec, err := h.service.Approve(actor, id)
	if err != nil {
		h.log.Warn("approve failed", zap.Int("record_id", id), zap.Error(err))
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *BorrowingHandler) Reject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, _ := security.ActorFromContext(c)
	rec, err := h.service.Reject(actor, id, req.Reason)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *BorrowingHandler) Return(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication claims"})
		return
	}

	rec, err := h.service.Return(actor, id, req.Note)
	if err != nil {
		h.log.Warn("return failed", zap.Int("record_id", id), zap.Error(err))
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *BorrowingHandler) MarkOverdue(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	actor, _ := security.ActorFromContext(c)
	rec, err := h.service.MarkOverdue(actor, id)
	if err != nil {
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}
