package inventory

import (
	"fmt"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type CategoryRepository struct {
	repository *repository.Repository
}

func NewCategoryRepository(r *repository.Repository) *CategoryRepository {
	return &CategoryRepository{repository: r}
}

func (r *CategoryRepository) GetCategories() ([]models.ItemCategory, error) {
	var categories []models.ItemCategory
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "label").
		From("item_categories").
		Order(goqu.I("label").Asc())

	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) PersistCategory(category models.ItemCategory) (*models.ItemCategory, error) {
	query := r.repository.GoquDBWrapper.Insert("item_categories").
		Rows(goqu.Record{
			"name":  category.Name,
			"label": category.Label,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&category.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("Duplicate category name", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert category record: %w", err)
	}

	return &category, nil
}

// HasRelatedItems blocks category removal while items still reference it.
func (r *CategoryRepository) HasRelatedItems(categoryID int) (bool, error) {
	query := r.repository.GoquDBWrapper.
		From("items").
		Where(goqu.Ex{"category_id": categoryID})

	count, err := query.Count()
	if err != nil {
		return false, fmt.Errorf("failed to count related items: %w", err)
	}

	return count > 0, nil
}

func (r *CategoryRepository) DeleteCategory(categoryID int) error {
	query := r.repository.GoquDBWrapper.Delete("item_categories").
		Where(goqu.Ex{"id": categoryID})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("Unable to remove category", string(pqErr.Code))
		}
		return fmt.Errorf("failed to remove category %d: %w", categoryID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for category %d: %w", categoryID, err)
	}
	if rowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "category", ID: categoryID}
	}

	return nil
}
