package bookings

import (
	"testing"
	"time"

	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) InsertBooking(booking *models.LabBooking) error {
	args := m.Called(booking)
	return args.Error(0)
}

func (m *MockBookingStore) HasBooking(labID int, date time.Time, slot string) (bool, error) {
	args := m.Called(labID, date, slot)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) ListBookings(conditions listBookingsQuery) ([]models.LabBooking, error) {
	args := m.Called(conditions)
	return args.Get(0).([]models.LabBooking), args.Error(1)
}

type MockLabStore struct {
	mock.Mock
}

func (m *MockLabStore) GetLab(id int) (*models.Laboratory, error) {
	args := m.Called(id)
	if lab, ok := args.Get(0).(*models.Laboratory); ok {
		return lab, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Log(action string, userID *int, data interface{}, item auditlog.Auditable) {
	m.Called(action, userID, data, item)
}

var bookingDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func openLab() *models.Laboratory {
	return &models.Laboratory{ID: 5, Name: "Chemistry Lab A", Status: models.LabStatusOpen}
}

func newTestBookingService(bookings BookingStore, labs LabStore, audit AuditLogger) *BookingService {
	return &BookingService{
		bookings: bookings,
		labs:     labs,
		audit:    audit,
		now:      func() time.Time { return bookingDate },
	}
}

func TestCreateBookingStudentStaysPending(t *testing.T) {
	store := new(MockBookingStore)
	labs := new(MockLabStore)
	audit := new(MockAuditLogger)
	service := newTestBookingService(store, labs, audit)

	labs.On("GetLab", 5).Return(openLab(), nil).Once()
	store.On("HasBooking", 5, bookingDate, "09:00-11:00").Return(false, nil).Once()
	store.On("InsertBooking", mock.AnythingOfType("*models.LabBooking")).Return(nil).Once()
	audit.On("Log", "book", mock.Anything, mock.Anything, mock.Anything).Once()

	booking, err := service.CreateBooking(models.Actor{ID: 11, Role: "student"},
		BookingRequest{LabID: 5, Date: bookingDate, TimeSlot: "09:00-11:00"})

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.NotEmpty(t, booking.Code)
	assert.Equal(t, 11, booking.RequesterID)
	store.AssertExpectations(t)
}

func TestCreateBookingStaffConfirmedImmediately(t *testing.T) {
	store := new(MockBookingStore)
	labs := new(MockLabStore)
	audit := new(MockAuditLogger)
	service := newTestBookingService(store, labs, audit)

	labs.On("GetLab", 5).Return(openLab(), nil).Twice()
	store.On("HasBooking", 5, bookingDate, "11:00-13:00").Return(false, nil).Twice()
	store.On("InsertBooking", mock.AnythingOfType("*models.LabBooking")).Return(nil).Twice()
	audit.On("Log", "book", mock.Anything, mock.Anything, mock.Anything).Twice()

	for _, role := range []string{"aslab", "admin"} {
		booking, err := service.CreateBooking(models.Actor{ID: 2, Role: role},
			BookingRequest{LabID: 5, Date: bookingDate, TimeSlot: "11:00-13:00"})

		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	}
}

func TestCreateBookingClosedLabRejectedForEveryRole(t *testing.T) {
	store := new(MockBookingStore)
	labs := new(MockLabStore)
	service := newTestBookingService(store, labs, new(MockAuditLogger))

	closed := &models.Laboratory{ID: 5, Name: "Chemistry Lab A", Status: models.LabStatusClosed}
	labs.On("GetLab", 5).Return(closed, nil).Times(3)

	for _, role := range []string{"student", "aslab", "admin"} {
		_, err := service.CreateBooking(models.Actor{ID: 2, Role: role},
			BookingRequest{LabID: 5, Date: bookingDate, TimeSlot: "09:00-11:00"})

		var validationErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "lab_id", validationErr.Field)
	}
	store.AssertNotCalled(t, "InsertBooking", mock.Anything)
}

func TestCreateBookingInvalidTimeSlot(t *testing.T) {
	labs := new(MockLabStore)
	service := newTestBookingService(new(MockBookingStore), labs, new(MockAuditLogger))

	_, err := service.CreateBooking(models.Actor{ID: 11, Role: "student"},
		BookingRequest{LabID: 5, Date: bookingDate, TimeSlot: "23:00-01:00"})

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "time_slot", validationErr.Field)
	labs.AssertNotCalled(t, "GetLab", mock.Anything)
}

func TestCreateBookingSlotAlreadyTaken(t *testing.T) {
	store := new(MockBookingStore)
	labs := new(MockLabStore)
	service := newTestBookingService(store, labs, new(MockAuditLogger))

	labs.On("GetLab", 5).Return(openLab(), nil).Once()
	store.On("HasBooking", 5, bookingDate, "09:00-11:00").Return(true, nil).Once()

	_, err := service.CreateBooking(models.Actor{ID: 11, Role: "student"},
		BookingRequest{LabID: 5, Date: bookingDate, TimeSlot: "09:00-11:00"})

	var conflictErr *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	store.AssertNotCalled(t, "InsertBooking", mock.Anything)
}

func TestCreateBookingUnknownRoleDenied(t *testing.T) {
	service := newTestBookingService(new(MockBookingStore), new(MockLabStore), new(MockAuditLogger))

	_, err := service.CreateBooking(models.Actor{ID: 11, Role: "guest"},
		BookingRequest{LabID: 5, Date: bookingDate, TimeSlot: "09:00-11:00"})

	var authzErr *apperrors.AuthorizationError
	assert.ErrorAs(t, err, &authzErr)
}

func TestCreateBookingUnknownLab(t *testing.T) {
	labs := new(MockLabStore)
	service := newTestBookingService(new(MockBookingStore), labs, new(MockAuditLogger))

	labs.On("GetLab", 99).Return(nil, &apperrors.NotFoundError{Resource: "laboratory", ID: 99}).Once()

	_, err := service.CreateBooking(models.Actor{ID: 11, Role: "student"},
		BookingRequest{LabID: 99, Date: bookingDate, TimeSlot: "09:00-11:00"})

	var notFoundErr *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
