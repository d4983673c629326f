package locations

import (
	"fmt"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LocationRepository struct {
	repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{repository: r}
}

func (r *LocationRepository) GetLocations() ([]models.Location, error) {
	var locations = []models.Location{}
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "details").
		From("locations").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return locations, nil
}

func (r *LocationRepository) PersistLocation(location *models.Location) error {
	query := r.repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"name":    location.Name,
			"details": location.Details,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&location.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("Duplicate location name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert location record: %w", err)
	}

	return nil
}
