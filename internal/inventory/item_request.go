package inventory

import (
	"labhouse/pkg/apperrors"
	"labhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  int    `json:"category_id" binding:"required"`
	LocationID  int    `json:"location_id" binding:"required"`
	Quantity    int    `json:"quantity"`
	Condition   string `json:"condition"`
}

func (r *ItemRequest) Validate() error {
	if r.Quantity < 0 {
		return &apperrors.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if r.Condition == "" {
		r.Condition = string(models.ConditionGood)
	}
	if !models.ItemCondition(r.Condition).IsValid() {
		return &apperrors.ValidationError{Field: "condition", Reason: "must be excellent, good, fair or poor"}
	}
	return nil
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *int    `json:"category_id"`
	LocationID  *int    `json:"location_id"`
	Condition   *string `json:"condition"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

var itemColumnAliases = map[string]string{
	"category_id": "i.category_id",
	"location_id": "i.location_id",
	"condition":   "i.condition",
}

type fetchItemsQuery struct {
	CategoryID  *int   `form:"category_id" binding:"omitempty,number"`
	LocationIDs []int  `form:"location_ids" binding:"omitempty"`
	Condition   string `form:"condition"`
}

func (q *fetchItemsQuery) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}

	if q.CategoryID != nil {
		conditions[aliases["category_id"]] = *q.CategoryID
	}
	if q.LocationIDs != nil {
		conditions[aliases["location_id"]] = q.LocationIDs
	}
	if q.Condition != "" {
		conditions[aliases["condition"]] = q.Condition
	}

	return conditions
}
