package borrowings

import (
	"fmt"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type BorrowingRepository struct {
	repository *repository.Repository
}

func NewBorrowingRepository(r *repository.Repository) *BorrowingRepository {
	return &BorrowingRepository{repository: r}
}

var recordColumns = []interface{}{
	"id", "item_id", "borrower_id", "quantity",
	"item_name", "item_category", "item_location",
	"borrow_date", "due_date", "return_date", "status", "return_note",
}

func (r *BorrowingRepository) InsertRecord(tx *goqu.TxDatabase, rec *models.BorrowingRecord) (int, error) {
	query := tx.Insert("borrowings").
		Rows(goqu.Record{
			"item_id":       rec.ItemID,
			"borrower_id":   rec.BorrowerID,
			"quantity":      rec.Quantity,
			"item_name":     rec.ItemName,
			"item_category": rec.ItemCategory,
			"item_location": rec.ItemLocation,
			"borrow_date":   rec.BorrowDate,
			"due_date":      rec.DueDate,
			"status":        rec.Status,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert borrowing record: %w", err)
	}

	return id, nil
}

func (r *BorrowingRepository) GetRecord(id int) (*models.BorrowingRecord, error) {
	var rec models.BorrowingRecord
	query := r.repository.GoquDBWrapper.
		Select(recordColumns...).
		From("borrowings").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&rec)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, &apperrors.NotFoundError{Resource: "borrowing record", ID: id}
	}

	return &rec, nil
}

func (r *BorrowingRepository) ListRecords(conditions listBorrowingsQuery) ([]models.BorrowingRecord, error) {
	var records []models.BorrowingRecord
	query := r.repository.GoquDBWrapper.
		Select(recordColumns...).
		From("borrowings").
		Where(conditions.BuildConditions()).
		Order(goqu.I("borrow_date").Desc())

	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return records, nil
}

// UpdateRecordStatus patches a record only while it still sits in one of
// the expected states. The false return marks a stale view: some other
// writer moved the record first.
func (r *BorrowingRepository) UpdateRecordStatus(tx *goqu.TxDatabase, id int, expected []models.BorrowStatus, patch goqu.Record) (bool, error) {
	statuses := make([]string, 0, len(expected))
	for _, s := range expected {
		statuses = append(statuses, string(s))
	}

	query := tx.Update("borrowings").
		Set(patch).
		Where(goqu.Ex{"id": id}).
		Where(goqu.C("status").In(statuses))

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update borrowing record %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for record %d: %w", id, err)
	}

	return rowsAffected > 0, nil
}
