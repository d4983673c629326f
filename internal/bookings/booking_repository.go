package bookings

import (
	"fmt"
	"time"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type BookingRepository struct {
	repository *repository.Repository
}

func NewBookingRepository(r *repository.Repository) *BookingRepository {
	return &BookingRepository{repository: r}
}

func (r *BookingRepository) InsertBooking(booking *models.LabBooking) error {
	query := r.repository.GoquDBWrapper.Insert("lab_bookings").
		Rows(goqu.Record{
			"code":         booking.Code,
			"lab_id":       booking.LabID,
			"requester_id": booking.RequesterID,
			"date":         booking.Date,
			"time_slot":    booking.TimeSlot,
			"equipment":    booking.Equipment,
			"status":       booking.Status,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&booking.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("Time slot is already booked", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert booking record: %w", err)
	}

	return nil
}

// HasBooking checks the (lab, date, slot) triple. The unique index on the
// table is the authoritative guard; this gives the caller a friendlier
// error on the common path.
func (r *BookingRepository) HasBooking(labID int, date time.Time, slot string) (bool, error) {
	query := r.repository.GoquDBWrapper.
		From("lab_bookings").
		Where(goqu.Ex{
			"lab_id":    labID,
			"date":      date,
			"time_slot": slot,
		})

	count, err := query.Count()
	if err != nil {
		return false, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count > 0, nil
}

func (r *BookingRepository) ListBookings(conditions listBookingsQuery) ([]models.LabBooking, error) {
	var bookings []models.LabBooking
	query := r.repository.GoquDBWrapper.
		Select("id", "code", "lab_id", "requester_id", "date", "time_slot", "equipment", "status", "created_at").
		From("lab_bookings").
		Where(conditions.BuildConditions()).
		Order(goqu.I("date").Asc(), goqu.I("time_slot").Asc())

	if err := query.Executor().ScanStructs(&bookings); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return bookings, nil
}
