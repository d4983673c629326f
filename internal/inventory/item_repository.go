package inventory

import (
	"fmt"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ItemRepository struct {
	repository *repository.Repository
}

func NewItemRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

func (r *ItemRepository) itemSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("i.id").As("item_id"),
			goqu.I("i.name").As("item_name"),
			goqu.I("i.description").As("item_description"),
			goqu.I("i.quantity").As("quantity"),
			goqu.I("i.condition").As("condition"),
			goqu.I("i.last_updated").As("last_updated"),
			goqu.I("c.id").As("category_id"),
			goqu.I("c.name").As("category_name"),
			goqu.I("c.label").As("category_label"),
			goqu.I("l.id").As("location_id"),
			goqu.I("l.name").As("location_name"),
		).
		From(goqu.T("items").As("i")).
		LeftJoin(
			goqu.T("item_categories").As("c"),
			goqu.On(goqu.Ex{"c.id": goqu.I("i.category_id")}),
		).
		LeftJoin(
			goqu.T("locations").As("l"),
			goqu.On(goqu.Ex{"l.id": goqu.I("i.location_id")}),
		)
}

func (r *ItemRepository) GetItems(conditions *fetchItemsQuery) ([]models.InventoryItem, error) {
	query := r.itemSelect().Order(goqu.I("i.id").Asc())
	if conditions != nil {
		query = query.Where(conditions.BuildConditions(itemColumnAliases))
	}

	var flatItems []models.FlatItemRecord
	if err := query.Executor().ScanStructs(&flatItems); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	items := make([]models.InventoryItem, 0, len(flatItems))
	for _, flat := range flatItems {
		items = append(items, flat.TransformToItem())
	}

	return items, nil
}

func (r *ItemRepository) GetItem(id int) (*models.InventoryItem, error) {
	var flat models.FlatItemRecord
	query := r.itemSelect().Where(goqu.Ex{"i.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, &apperrors.NotFoundError{Resource: "item", ID: id}
	}

	item := flat.TransformToItem()
	return &item, nil
}

func (r *ItemRepository) PersistItem(req ItemRequest) (*models.InventoryItem, error) {
	query := r.repository.GoquDBWrapper.Insert("items").
		Rows(goqu.Record{
			"name":        req.Name,
			"description": req.Description,
			"category_id": req.CategoryID,
			"location_id": req.LocationID,
			"quantity":    req.Quantity,
			"condition":   req.Condition,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("Unable to create inventory item", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert item record: %w", err)
	}

	return r.GetItem(id)
}

func (r *ItemRepository) UpdateItem(id int, req UpdateItemRequest) (*models.InventoryItem, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.LocationID != nil {
		updates["location_id"] = *req.LocationID
	}
	if req.Condition != nil {
		updates["condition"] = *req.Condition
	}

	if len(updates) == 0 {
		return nil, &apperrors.ValidationError{Field: "body", Reason: "no fields to update"}
	}
	updates["last_updated"] = goqu.L("NOW()")

	query := r.repository.GoquDBWrapper.
		Update("items").
		Set(updates).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update item record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, &apperrors.NotFoundError{Resource: "item", ID: id}
	}

	return r.GetItem(id)
}

// DecrementQuantity takes quantity off an item only while enough is left.
// The condition keeps concurrent borrow requests from overselling stock.
func (r *ItemRepository) DecrementQuantity(tx *goqu.TxDatabase, itemID, quantity int) (bool, error) {
	query := tx.Update("items").
		Set(goqu.Record{
			"quantity":     goqu.L("quantity - ?", quantity),
			"last_updated": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": itemID}).
		Where(goqu.C("quantity").Gte(quantity))

	result, err := query.Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to decrease quantity for item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for item %d: %w", itemID, err)
	}

	return rowsAffected > 0, nil
}

func (r *ItemRepository) IncrementQuantity(tx *goqu.TxDatabase, itemID, quantity int) error {
	query := tx.Update("items").
		Set(goqu.Record{
			"quantity":     goqu.L("quantity + ?", quantity),
			"last_updated": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": itemID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to increase quantity for item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", itemID, err)
	}
	if rowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "item", ID: itemID}
	}

	return nil
}

// SetQuantity is the direct administrative adjustment.
func (r *ItemRepository) SetQuantity(itemID, quantity int) error {
	query := r.repository.GoquDBWrapper.Update("items").
		Set(goqu.Record{
			"quantity":     quantity,
			"last_updated": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": itemID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to set quantity for item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", itemID, err)
	}
	if rowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "item", ID: itemID}
	}

	return nil
}

// CanRemoveItem reports whether any borrowing still holds the item.
func (r *ItemRepository) CanRemoveItem(itemID int) (bool, error) {
	openStatuses := []string{
		string(models.BorrowStatusPending),
		string(models.BorrowStatusBorrowed),
		string(models.BorrowStatusOverdue),
	}

	query := r.repository.GoquDBWrapper.
		From("borrowings").
		Where(goqu.Ex{"item_id": itemID}).
		Where(goqu.C("status").In(openStatuses))

	count, err := query.Count()
	if err != nil {
		return false, fmt.Errorf("failed to count open borrowings for item %d: %w", itemID, err)
	}

	return count == 0, nil
}

func (r *ItemRepository) RemoveItem(itemID int) error {
	query := r.repository.GoquDBWrapper.Delete("items").
		Where(goqu.Ex{"id": itemID})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("Unable to remove inventory item", string(pqErr.Code))
		}
		return fmt.Errorf("failed to remove item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", itemID, err)
	}
	if rowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "item", ID: itemID}
	}

	return nil
}
