package borrowings

import (
	"time"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/auditlog"
	"labhouse/pkg/models"
	"labhouse/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

const defaultBorrowPeriod = 7 * 24 * time.Hour

// RecordRepository persists borrowing records.
type RecordRepository interface {
	InsertRecord(tx *goqu.TxDatabase, rec *models.BorrowingRecord) (int, error)
	GetRecord(id int) (*models.BorrowingRecord, error)
	ListRecords(conditions listBorrowingsQuery) ([]models.BorrowingRecord, error)
	UpdateRecordStatus(tx *goqu.TxDatabase, id int, expected []models.BorrowStatus, patch goqu.Record) (bool, error)
}

// ItemStore is the slice of the inventory repository the lifecycle needs.
// DecrementQuantity is a conditional update and reports false when stock
// is short, so read-check-write stays atomic on the database side.
type ItemStore interface {
	GetItem(id int) (*models.InventoryItem, error)
	DecrementQuantity(tx *goqu.TxDatabase, itemID, quantity int) (bool, error)
	IncrementQuantity(tx *goqu.TxDatabase, itemID, quantity int) error
}

type AuditLogger interface {
	Log(action string, userID *int, data interface{}, item auditlog.Auditable)
}

// BorrowingService drives the borrow state machine:
// pending_approval -> {borrowed, rejected}; borrowed -> {returned, overdue};
// overdue -> returned. Stock moves only on borrow/approve and return.
type BorrowingService struct {
	records          RecordRepository
	items            ItemStore
	audit            AuditLogger
	requiresApproval bool
	borrowPeriod     time.Duration
	withTx           func(fn func(tx *goqu.TxDatabase) error) error
	now              func() time.Time
}

func NewBorrowingService(r *repository.Repository, records RecordRepository, items ItemStore, audit AuditLogger, requiresApproval bool) *BorrowingService {
	return &BorrowingService{
		records:          records,
		items:            items,
		audit:            audit,
		requiresApproval: requiresApproval,
		borrowPeriod:     defaultBorrowPeriod,
		withTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		now: time.Now,
	}
}

// RequestBorrow creates a borrowing record. Under the approval policy the
// record waits in pending_approval and stock is untouched; otherwise the
// record starts borrowed and stock is decremented in the same transaction.
func (s *BorrowingService) RequestBorrow(actor models.Actor, req BorrowRequest) (*models.BorrowingRecord, error) {
	if !roles.Authorize(roles.Role(actor.Role), roles.ActionBorrow) {
		return nil, &apperrors.AuthorizationError{Role: actor.Role, Action: string(roles.ActionBorrow)}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(req.ItemID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > item.Quantity {
		return nil, &apperrors.InsufficientStockError{ItemID: item.ID, Requested: req.Quantity}
	}

	now := s.now()
	dueDate := now.Add(s.borrowPeriod)
	if req.DueDate != nil {
		if req.DueDate.Before(now) {
			return nil, &apperrors.ValidationError{Field: "due_date", Reason: "must be in the future"}
		}
		dueDate = *req.DueDate
	}

	rec := &models.BorrowingRecord{
		ItemID:       item.ID,
		BorrowerID:   actor.ID,
		Quantity:     req.Quantity,
		ItemName:     item.Name,
		ItemCategory: item.Category.Label,
		ItemLocation: item.Location.Name,
		BorrowDate:   now,
		DueDate:      dueDate,
		Status:       models.BorrowStatusPending,
	}
	if !s.requiresApproval {
		rec.Status = models.BorrowStatusBorrowed
	}

	err = s.withTx(func(tx *goqu.TxDatabase) error {
		if !s.requiresApproval {
			ok, err := s.items.DecrementQuantity(tx, item.ID, req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &apperrors.InsufficientStockError{ItemID: item.ID, Requested: req.Quantity}
			}
		}

		id, err := s.records.InsertRecord(tx, rec)
		if err != nil {
			return err
		}
		rec.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log("borrow_request", &actor.ID, req, rec)

	return rec, nil
}

// Approve moves a pending record to borrowed and takes the reserved
// quantity off stock. Stock may have dropped since the request was made.
func (s *BorrowingService) Approve(actor models.Actor, recordID int) (*models.BorrowingRecord, error) {
	if !roles.Authorize(roles.Role(actor.Role), roles.ActionApproveBorrow) {
		return nil, &apperrors.AuthorizationError{Role: actor.Role, Action: string(roles.ActionApproveBorrow)}
	}

	rec, err := s.records.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	if !rec.Status.CanTransitionTo(models.BorrowStatusBorrowed) {
		return nil, &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusBorrowed)}
	}

	err = s.withTx(func(tx *goqu.TxDatabase) error {
		ok, err := s.items.DecrementQuantity(tx, rec.ItemID, rec.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return &apperrors.InsufficientStockError{ItemID: rec.ItemID, Requested: rec.Quantity}
		}

		updated, err := s.records.UpdateRecordStatus(tx, rec.ID,
			[]models.BorrowStatus{models.BorrowStatusPending},
			goqu.Record{"status": models.BorrowStatusBorrowed})
		if err != nil {
			return err
		}
		if !updated {
			return &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusBorrowed)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec.Status = models.BorrowStatusBorrowed
	s.audit.Log("approve", &actor.ID, nil, rec)

	return rec, nil
}

// Reject closes a pending record without touching stock.
func (s *BorrowingService) Reject(actor models.Actor, recordID int, reason string) (*models.BorrowingRecord, error) {
	if !roles.Authorize(roles.Role(actor.Role), roles.ActionRejectBorrow) {
		return nil, &apperrors.AuthorizationError{Role: actor.Role, Action: string(roles.ActionRejectBorrow)}
	}

	rec, err := s.records.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	if !rec.Status.CanTransitionTo(models.BorrowStatusRejected) {
		return nil, &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusRejected)}
	}

	err = s.withTx(func(tx *goqu.TxDatabase) error {
		updated, err := s.records.UpdateRecordStatus(tx, rec.ID,
			[]models.BorrowStatus{models.BorrowStatusPending},
			goqu.Record{"status": models.BorrowStatusRejected, "return_note": reason})
		if err != nil {
			return err
		}
		if !updated {
			return &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusRejected)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec.Status = models.BorrowStatusRejected
	rec.ReturnNote = reason
	s.audit.Log("reject", &actor.ID, map[string]interface{}{"reason": reason}, rec)

	return rec, nil
}

// Return closes a borrowed or overdue record and credits the borrowed
// quantity back. The conditional status update guarantees a stale double
// return can never credit stock twice.
func (s *BorrowingService) Return(actor models.Actor, recordID int, note string) (*models.BorrowingRecord, error) {
	rec, err := s.records.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	if actor.ID != rec.BorrowerID && !roles.Authorize(roles.Role(actor.Role), roles.ActionApproveBorrow) {
		return nil, &apperrors.AuthorizationError{Role: actor.Role, Action: "return"}
	}
	if !rec.Status.CanTransitionTo(models.BorrowStatusReturned) {
		return nil, &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusReturned)}
	}

	returnDate := s.now()
	err = s.withTx(func(tx *goqu.TxDatabase) error {
		updated, err := s.records.UpdateRecordStatus(tx, rec.ID,
			[]models.BorrowStatus{models.BorrowStatusBorrowed, models.BorrowStatusOverdue},
			goqu.Record{
				"status":      models.BorrowStatusReturned,
				"return_date": returnDate,
				"return_note": note,
			})
		if err != nil {
			return err
		}
		if !updated {
			return &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusReturned)}
		}

		return s.items.IncrementQuantity(tx, rec.ItemID, rec.Quantity)
	})
	if err != nil {
		return nil, err
	}

	rec.Status = models.BorrowStatusReturned
	rec.ReturnDate = &returnDate
	rec.ReturnNote = note
	s.audit.Log("return", &actor.ID, map[string]interface{}{"note": note}, rec)

	return rec, nil
}

// MarkOverdue flags a borrowed record past its due date. Pure status
// change, stock is untouched.
func (s *BorrowingService) MarkOverdue(actor models.Actor, recordID int) (*models.BorrowingRecord, error) {
	if !roles.Authorize(roles.Role(actor.Role), roles.ActionApproveBorrow) {
		return nil, &apperrors.AuthorizationError{Role: actor.Role, Action: "mark_overdue"}
	}

	rec, err := s.records.GetRecord(recordID)
	if err != nil {
		return nil, err
	}
	if !rec.Status.CanTransitionTo(models.BorrowStatusOverdue) {
		return nil, &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusOverdue)}
	}
	if !s.now().After(rec.DueDate) {
		return nil, &apperrors.ValidationError{Field: "due_date", Reason: "record is not past its due date"}
	}

	err = s.withTx(func(tx *goqu.TxDatabase) error {
		updated, err := s.records.UpdateRecordStatus(tx, rec.ID,
			[]models.BorrowStatus{models.BorrowStatusBorrowed},
			goqu.Record{"status": models.BorrowStatusOverdue})
		if err != nil {
			return err
		}
		if !updated {
			return &apperrors.InvalidStateTransitionError{From: string(rec.Status), To: string(models.BorrowStatusOverdue)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec.Status = models.BorrowStatusOverdue
	s.audit.Log("mark_overdue", &actor.ID, nil, rec)

	return rec, nil
}

func (s *BorrowingService) GetRecord(id int) (*models.BorrowingRecord, error) {
	return s.records.GetRecord(id)
}

func (s *BorrowingService) ListRecords(conditions listBorrowingsQuery) ([]models.BorrowingRecord, error) {
	return s.records.ListRecords(conditions)
}
