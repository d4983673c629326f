package models

import (
	"encoding/json"
	"fmt"
)

type LabStatus string

const (
	LabStatusOpen   LabStatus = "open"
	LabStatusClosed LabStatus = "closed"
)

func (s LabStatus) IsValid() bool {
	return s == LabStatusOpen || s == LabStatusClosed
}

type LabType string

const (
	LabTypeComputer    LabType = "computer"
	LabTypeScience     LabType = "science"
	LabTypeEngineering LabType = "engineering"
	LabTypeBiology     LabType = "biology"
	LabTypeElectronics LabType = "electronics"
)

// LabTypes lists every known laboratory type, in display order.
var LabTypes = []LabType{
	LabTypeComputer,
	LabTypeScience,
	LabTypeEngineering,
	LabTypeBiology,
	LabTypeElectronics,
}

func (t LabType) IsValid() bool {
	for _, known := range LabTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Laboratory struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Building    string    `json:"building"`
	Floor       int       `json:"floor"`
	Room        string    `json:"room"`
	Status      LabStatus `json:"status"`
	Type        LabType   `json:"type"`
	Capacity    int       `json:"capacity"`
	Hours       string    `json:"hours"`
	Equipment   []string  `json:"equipment"`
	Assistants  []int     `json:"assistants"`
	Rating      float64   `json:"rating"`
}

// FlatLabRecord carries the raw row; equipment and assistants are stored
// as JSON columns.
type FlatLabRecord struct {
	ID          int     `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Building    string  `db:"building"`
	Floor       int     `db:"floor"`
	Room        string  `db:"room"`
	Status      string  `db:"status"`
	Type        string  `db:"type"`
	Capacity    int     `db:"capacity"`
	Hours       string  `db:"hours"`
	Equipment   []byte  `db:"equipment"`
	Assistants  []byte  `db:"assistants"`
	Rating      float64 `db:"rating"`
}

func (f *FlatLabRecord) TransformToLaboratory() (Laboratory, error) {
	lab := Laboratory{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Building:    f.Building,
		Floor:       f.Floor,
		Room:        f.Room,
		Status:      LabStatus(f.Status),
		Type:        LabType(f.Type),
		Capacity:    f.Capacity,
		Hours:       f.Hours,
		Rating:      f.Rating,
	}

	if len(f.Equipment) > 0 {
		if err := json.Unmarshal(f.Equipment, &lab.Equipment); err != nil {
			return Laboratory{}, fmt.Errorf("failed to unmarshal lab equipment: %w", err)
		}
	}
	if len(f.Assistants) > 0 {
		if err := json.Unmarshal(f.Assistants, &lab.Assistants); err != nil {
			return Laboratory{}, fmt.Errorf("failed to unmarshal lab assistants: %w", err)
		}
	}

	return lab, nil
}

func (l *Laboratory) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "laboratory",
	}
}
