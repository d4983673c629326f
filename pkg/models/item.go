package models

import "time"

type ItemCondition string

const (
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
)

func (c ItemCondition) IsValid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}

type InventoryItem struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    ItemCategory  `json:"category"`
	Location    Location      `json:"location"`
	Quantity    int           `json:"quantity"`
	Condition   ItemCondition `json:"condition"`
	LastUpdated time.Time     `json:"last_updated"`
}

// FlatItemRecord maps the joined item row before it is folded into the
// nested InventoryItem shape.
type FlatItemRecord struct {
	ID            int       `db:"item_id"`
	Name          string    `db:"item_name"`
	Description   string    `db:"item_description"`
	Quantity      int       `db:"quantity"`
	Condition     string    `db:"condition"`
	LastUpdated   time.Time `db:"last_updated"`
	CategoryID    int       `db:"category_id"`
	CategoryName  string    `db:"category_name"`
	CategoryLabel string    `db:"category_label"`
	LocationID    int       `db:"location_id"`
	LocationName  string    `db:"location_name"`
}

func (f *FlatItemRecord) TransformToItem() InventoryItem {
	return InventoryItem{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Quantity:    f.Quantity,
		Condition:   ItemCondition(f.Condition),
		LastUpdated: f.LastUpdated,
		Category: ItemCategory{
			ID:    f.CategoryID,
			Name:  f.CategoryName,
			Label: f.CategoryLabel,
		},
		Location: Location{
			ID:   f.LocationID,
			Name: f.LocationName,
		},
	}
}

func (i *InventoryItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "item",
	}
}
