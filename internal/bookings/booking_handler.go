package bookings

import (
	"net/http"

	"labhouse/internal/labs"
	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/roles"
	"labhouse/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service *BookingService
	log     *zap.Logger
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, a *auditlog.Auditlog, log *zap.Logger) {
	service := NewBookingService(
		NewBookingRepository(r),
		labs.NewLabRepository(r),
		a,
	)
	handler := BookingHandler{service: service, log: log}

	authorized := router.Group("/bookings", security.JWTMiddleware())
	authorized.POST("", handler.CreateBooking)
	authorized.GET("", handler.ListBookings)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication claims"})
		return
	}

	booking, err := h.service.CreateBooking(actor, req)
	if err != nil {
		h.log.Warn("booking failed", zap.Int("lab_id", req.LabID), zap.Error(err))
		c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	var query listBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication claims"})
		return
	}

	// Students only ever see their own bookings.
	if roles.Role(actor.Role) == roles.Student {
		query.RequesterID = &actor.ID
	}

	bookings, err := h.service.ListBookings(query)
	if err != nil {
		h.log.Error("unable to list bookings", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
