package bookings

import (
	"time"

	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type BookingRequest struct {
	LabID     int       `json:"lab_id" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	TimeSlot  string    `json:"time_slot" binding:"required"`
	Equipment string    `json:"equipment"`
}

func (r *BookingRequest) Validate() error {
	if !models.IsValidTimeSlot(r.TimeSlot) {
		return &apperrors.ValidationError{Field: "time_slot", Reason: "not a bookable slot"}
	}
	return nil
}

type listBookingsQuery struct {
	LabID       *int   `form:"lab_id" binding:"omitempty,number"`
	RequesterID *int   `form:"requester_id" binding:"omitempty,number"`
	Status      string `form:"status"`
}

func (q *listBookingsQuery) BuildConditions() goqu.Ex {
	conditions := goqu.Ex{}

	if q.LabID != nil {
		conditions["lab_id"] = *q.LabID
	}
	if q.RequesterID != nil {
		conditions["requester_id"] = *q.RequesterID
	}
	if q.Status != "" {
		conditions["status"] = q.Status
	}

	return conditions
}
