package models

import "time"

type BorrowStatus string

const (
	BorrowStatusPending  BorrowStatus = "pending_approval"
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusReturned BorrowStatus = "returned"
	BorrowStatusRejected BorrowStatus = "rejected"
	BorrowStatusOverdue  BorrowStatus = "overdue"
)

// CanTransitionTo encodes the borrow state machine. Returned and rejected
// are terminal.
func (s BorrowStatus) CanTransitionTo(next BorrowStatus) bool {
	switch s {
	case BorrowStatusPending:
		return next == BorrowStatusBorrowed || next == BorrowStatusRejected
	case BorrowStatusBorrowed:
		return next == BorrowStatusReturned || next == BorrowStatusOverdue
	case BorrowStatusOverdue:
		return next == BorrowStatusReturned
	default:
		return false
	}
}

// BorrowingRecord is the audit entity of a single loan. Item name, category
// and location are denormalized at creation time so the record stays
// displayable after the item is gone.
type BorrowingRecord struct {
	ID           int          `json:"id" db:"id"`
	ItemID       int          `json:"item_id" db:"item_id"`
	BorrowerID   int          `json:"borrower_id" db:"borrower_id"`
	Quantity     int          `json:"quantity" db:"quantity"`
	ItemName     string       `json:"item_name" db:"item_name"`
	ItemCategory string       `json:"item_category" db:"item_category"`
	ItemLocation string       `json:"item_location" db:"item_location"`
	BorrowDate   time.Time    `json:"borrow_date" db:"borrow_date"`
	DueDate      time.Time    `json:"due_date" db:"due_date"`
	ReturnDate   *time.Time   `json:"return_date,omitempty" db:"return_date"`
	Status       BorrowStatus `json:"status" db:"status"`
	ReturnNote   string       `json:"return_note,omitempty" db:"return_note"`
}

func (b *BorrowingRecord) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "borrowing",
	}
}
