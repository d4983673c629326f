package models

type Location struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Details string `json:"details,omitempty" db:"details"`
}
