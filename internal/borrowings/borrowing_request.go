package borrowings

import (
	"time"

	"labhouse/pkg/apperrors"

	"github.com/doug-martin/goqu/v9"
)

type BorrowRequest struct {
	ItemID   int        `json:"item_id" binding:"required"`
	Quantity int        `json:"quantity" binding:"required"`
	DueDate  *time.Time `json:"due_date"`
}

func (r *BorrowRequest) Validate() error {
	if r.Quantity < 1 {
		return &apperrors.ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	return nil
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ReturnRequest struct {
	Note string `json:"note"`
}

type listBorrowingsQuery struct {
	BorrowerID *int   `form:"borrower_id" binding:"omitempty,number"`
	ItemID     *int   `form:"item_id" binding:"omitempty,number"`
	Status     string `form:"status"`
}

func (q *listBorrowingsQuery) BuildConditions() goqu.Ex {
	conditions := goqu.Ex{}

	if q.BorrowerID != nil {
		conditions["borrower_id"] = *q.BorrowerID
	}
	if q.ItemID != nil {
		conditions["item_id"] = *q.ItemID
	}
	if q.Status != "" {
		conditions["status"] = q.Status
	}

	return conditions
}
