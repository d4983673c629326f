package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// TimeSlots is the fixed set of bookable slots for every laboratory.
var TimeSlots = []string{
	"07:00-09:00",
	"09:00-11:00",
	"11:00-13:00",
	"13:00-15:00",
	"15:00-17:00",
}

func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type LabBooking struct {
	ID          int           `json:"id" db:"id"`
	Code        string        `json:"code" db:"code"`
	LabID       int           `json:"lab_id" db:"lab_id"`
	RequesterID int           `json:"requester_id" db:"requester_id"`
	Date        time.Time     `json:"date" db:"date"`
	TimeSlot    string        `json:"time_slot" db:"time_slot"`
	Equipment   string        `json:"equipment,omitempty" db:"equipment"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

func (b *LabBooking) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "booking",
	}
}
