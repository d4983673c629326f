package labs

import (
	"encoding/json"
	"fmt"

	"labhouse/internal/repository"
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LabRepository struct {
	repository *repository.Repository
}

func NewLabRepository(r *repository.Repository) *LabRepository {
	return &LabRepository{repository: r}
}

var labColumns = []interface{}{
	"id", "name", "description", "building", "floor", "room",
	"status", "type", "capacity", "hours", "equipment", "assistants", "rating",
}

func (r *LabRepository) GetLabs() ([]models.Laboratory, error) {
	var flatLabs []models.FlatLabRecord
	query := r.repository.GoquDBWrapper.
		Select(labColumns...).
		From("laboratories").
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&flatLabs); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	labs := make([]models.Laboratory, 0, len(flatLabs))
	for _, flat := range flatLabs {
		lab, err := flat.TransformToLaboratory()
		if err != nil {
			return nil, err
		}
		labs = append(labs, lab)
	}

	return labs, nil
}

func (r *LabRepository) GetLab(id int) (*models.Laboratory, error) {
	var flat models.FlatLabRecord
	query := r.repository.GoquDBWrapper.
		Select(labColumns...).
		From("laboratories").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, &apperrors.NotFoundError{Resource: "laboratory", ID: id}
	}

	lab, err := flat.TransformToLaboratory()
	if err != nil {
		return nil, err
	}
	return &lab, nil
}

func (r *LabRepository) PersistLab(req CreateLabRequest) (*models.Laboratory, error) {
	equipmentJSON, err := json.Marshal(req.Equipment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lab equipment: %w", err)
	}
	assistantsJSON, err := json.Marshal(req.Assistants)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lab assistants: %w", err)
	}

	lab := models.Laboratory{
		Name:        req.Name,
		Description: req.Description,
		Building:    req.Building,
		Floor:       req.Floor,
		Room:        req.Room,
		Status:      models.LabStatus(req.Status),
		Type:        models.LabType(req.Type),
		Capacity:    req.Capacity,
		Hours:       req.Hours,
		Equipment:   req.Equipment,
		Assistants:  req.Assistants,
	}

	query := r.repository.GoquDBWrapper.Insert("laboratories").
		Rows(goqu.Record{
			"name":        req.Name,
			"description": req.Description,
			"building":    req.Building,
			"floor":       req.Floor,
			"room":        req.Room,
			"status":      req.Status,
			"type":        req.Type,
			"capacity":    req.Capacity,
			"hours":       req.Hours,
			"equipment":   equipmentJSON,
			"assistants":  assistantsJSON,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&lab.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("Duplicate laboratory room", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert laboratory record: %w", err)
	}

	return &lab, nil
}

func (r *LabRepository) UpdateLab(id int, req UpdateLabRequest) (*models.Laboratory, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Building != nil {
		updates["building"] = *req.Building
	}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.Room != nil {
		updates["room"] = *req.Room
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Hours != nil {
		updates["hours"] = *req.Hours
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Equipment != nil {
		equipmentJSON, err := json.Marshal(*req.Equipment)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal lab equipment: %w", err)
		}
		updates["equipment"] = equipmentJSON
	}
	if req.Assistants != nil {
		assistantsJSON, err := json.Marshal(*req.Assistants)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal lab assistants: %w", err)
		}
		updates["assistants"] = assistantsJSON
	}

	if len(updates) == 0 {
		return nil, &apperrors.ValidationError{Field: "body", Reason: "no fields to update"}
	}

	query := r.repository.GoquDBWrapper.
		Update("laboratories").
		Set(updates).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update laboratory record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, &apperrors.NotFoundError{Resource: "laboratory", ID: id}
	}

	return r.GetLab(id)
}

func (r *LabRepository) UpdateLabStatus(id int, status models.LabStatus) error {
	query := r.repository.GoquDBWrapper.
		Update("laboratories").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update laboratory status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &apperrors.NotFoundError{Resource: "laboratory", ID: id}
	}

	return nil
}
