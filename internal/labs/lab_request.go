package labs

import (
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"
)

type CreateLabRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Building    string   `json:"building" binding:"required"`
	Floor       int      `json:"floor"`
	Room        string   `json:"room" binding:"required"`
	Status      string   `json:"status"`
	Type        string   `json:"type" binding:"required"`
	Capacity    int      `json:"capacity"`
	Hours       string   `json:"hours"`
	Equipment   []string `json:"equipment"`
	Assistants  []int    `json:"assistants"`
}

func (r *CreateLabRequest) Validate() error {
	if r.Status == "" {
		r.Status = string(models.LabStatusOpen)
	}
	if !models.LabStatus(r.Status).IsValid() {
		return &apperrors.ValidationError{Field: "status", Reason: "must be open or closed"}
	}
	if !models.LabType(r.Type).IsValid() {
		return &apperrors.ValidationError{Field: "type", Reason: "unknown laboratory type"}
	}
	if r.Floor < 0 {
		return &apperrors.ValidationError{Field: "floor", Reason: "must not be negative"}
	}
	if r.Capacity < 0 {
		return &apperrors.ValidationError{Field: "capacity", Reason: "must not be negative"}
	}
	return nil
}

type UpdateLabRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Building    *string   `json:"building"`
	Floor       *int      `json:"floor"`
	Room        *string   `json:"room"`
	Type        *string   `json:"type"`
	Capacity    *int      `json:"capacity"`
	Hours       *string   `json:"hours"`
	Equipment   *[]string `json:"equipment"`
	Assistants  *[]int    `json:"assistants"`
	Rating      *float64  `json:"rating"`
}

type ChangeLabStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// listLabsQuery binds the filter dimensions from query parameters. Omitted
// toggle lists mean "everything enabled"; a provided list enables only the
// named values.
type listLabsQuery struct {
	Search   string   `form:"search"`
	Statuses []string `form:"status"`
	Types    []string `form:"types"`
	Building string   `form:"building"`
	Floor    string   `form:"floor"`
	Type     string   `form:"type"`
	Scope    string   `form:"scope"`
}

func (q *listLabsQuery) ToFilterState(scopes map[string]Scope) (FilterState, error) {
	state := DefaultFilterState()
	state.Search = q.Search

	if len(q.Statuses) > 0 {
		state.StatusToggles = make(map[models.LabStatus]bool, len(q.Statuses))
		for _, s := range q.Statuses {
			if !models.LabStatus(s).IsValid() {
				return FilterState{}, &apperrors.ValidationError{Field: "status", Reason: "unknown status " + s}
			}
			state.StatusToggles[models.LabStatus(s)] = true
		}
	}

	if len(q.Types) > 0 {
		state.TypeToggles = make(map[models.LabType]bool, len(q.Types))
		for _, t := range q.Types {
			if !models.LabType(t).IsValid() {
				return FilterState{}, &apperrors.ValidationError{Field: "types", Reason: "unknown type " + t}
			}
			state.TypeToggles[models.LabType(t)] = true
		}
	}

	if q.Building != "" {
		state.Building = q.Building
	}
	if q.Floor != "" {
		state.Floor = q.Floor
	}
	if q.Type != "" {
		if q.Type != SelectorAll && !models.LabType(q.Type).IsValid() {
			return FilterState{}, &apperrors.ValidationError{Field: "type", Reason: "unknown type " + q.Type}
		}
		state.Type = q.Type
	}

	if q.Scope != "" {
		scope, ok := scopes[q.Scope]
		if !ok {
			return FilterState{}, &apperrors.ValidationError{Field: "scope", Reason: "unknown scope " + q.Scope}
		}
		state.Scope = scope
	}

	return state, nil
}
