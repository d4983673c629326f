package bookings

import (
	"time"

	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/models"
	"labhouse/pkg/roles"

	"github.com/google/uuid"
)

// LabStore is the slice of the laboratory repository the booking flow
// needs.
type LabStore interface {
	GetLab(id int) (*models.Laboratory, error)
}

type BookingStore interface {
	InsertBooking(booking *models.LabBooking) error
	HasBooking(labID int, date time.Time, slot string) (bool, error)
	ListBookings(conditions listBookingsQuery) ([]models.LabBooking, error)
}

type AuditLogger interface {
	Log(action string, userID *int, data interface{}, item auditlog.Auditable)
}

type BookingService struct {
	bookings BookingStore
	labs     LabStore
	audit    AuditLogger
	now      func() time.Time
}

func NewBookingService(bookings BookingStore, labs LabStore, audit AuditLogger) *BookingService {
	return &BookingService{
		bookings: bookings,
		labs:     labs,
		audit:    audit,
		now:      time.Now,
	}
}

// CreateBooking reserves a slot in an open laboratory. Staff bookings are
// confirmed immediately, student bookings wait as pending.
func (s *BookingService) CreateBooking(actor models.Actor, req BookingRequest) (*models.LabBooking, error) {
	if !roles.Authorize(roles.Role(actor.Role), roles.ActionBookLab) {
		return nil, &apperrors.AuthorizationError{Role: actor.Role, Action: string(roles.ActionBookLab)}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lab, err := s.labs.GetLab(req.LabID)
	if err != nil {
		return nil, err
	}
	if lab.Status != models.LabStatusOpen {
		return nil, &apperrors.ValidationError{Field: "lab_id", Reason: "laboratory is closed"}
	}

	taken, err := s.bookings.HasBooking(req.LabID, req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &apperrors.ConflictError{Resource: "booking", Reason: "time slot is already booked"}
	}

	status := models.BookingStatusPending
	if roles.Role(actor.Role).HasPermission(roles.LabAssistant) {
		status = models.BookingStatusConfirmed
	}

	booking := &models.LabBooking{
		Code:        uuid.NewString(),
		LabID:       lab.ID,
		RequesterID: actor.ID,
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
		Equipment:   req.Equipment,
		Status:      status,
		CreatedAt:   s.now(),
	}

	if err := s.bookings.InsertBooking(booking); err != nil {
		return nil, err
	}

	s.audit.Log("book", &actor.ID, req, booking)

	return booking, nil
}

func (s *BookingService) ListBookings(conditions listBookingsQuery) ([]models.LabBooking, error) {
	return s.bookings.ListBookings(conditions)
}
