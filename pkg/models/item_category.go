package models

type ItemCategory struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Label string `json:"label" db:"label"`
}
