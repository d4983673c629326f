package labs

import (
	"strconv"
	"strings"

	"labhouse/pkg/models"
)

// SelectorAll is the selector value that disables a dropdown dimension.
const SelectorAll = "all"

// Scope is a named listing preset. An empty Building with OpenOnly false
// passes everything.
type Scope struct {
	Name     string `json:"name"`
	OpenOnly bool   `json:"open_only"`
	Building string `json:"building,omitempty"`
}

// FilterState holds every active listing dimension. Toggle maps are
// consulted directly: a status or type missing from its map is treated as
// disabled, so filtered-out categories never leak back in.
type FilterState struct {
	Search        string
	StatusToggles map[models.LabStatus]bool
	TypeToggles   map[models.LabType]bool
	Building      string
	Floor         string
	Type          string
	Scope         Scope
}

// DefaultFilterState enables every toggle and neutralizes every selector.
func DefaultFilterState() FilterState {
	state := FilterState{
		Search:        "",
		StatusToggles: map[models.LabStatus]bool{models.LabStatusOpen: true, models.LabStatusClosed: true},
		TypeToggles:   make(map[models.LabType]bool, len(models.LabTypes)),
		Building:      SelectorAll,
		Floor:         SelectorAll,
		Type:          SelectorAll,
		Scope:         Scope{Name: SelectorAll},
	}
	for _, t := range models.LabTypes {
		state.TypeToggles[t] = true
	}
	return state
}

// Filter returns the laboratories matching every active dimension, in input
// order. The input is never mutated and the result is always a fresh slice.
func Filter(labs []models.Laboratory, state FilterState) []models.Laboratory {
	filtered := make([]models.Laboratory, 0, len(labs))
	for _, lab := range labs {
		if matches(lab, state) {
			filtered = append(filtered, lab)
		}
	}
	return filtered
}

func matches(lab models.Laboratory, state FilterState) bool {
	if !matchesSearch(lab, state.Search) {
		return false
	}
	if !state.StatusToggles[lab.Status] {
		return false
	}
	if !state.TypeToggles[lab.Type] {
		return false
	}
	if state.Building != SelectorAll && lab.Building != state.Building {
		return false
	}
	if state.Floor != SelectorAll && strconv.Itoa(lab.Floor) != state.Floor {
		return false
	}
	// The type dropdown is independent of the toggle set; both must pass.
	if state.Type != SelectorAll && string(lab.Type) != state.Type {
		return false
	}
	return matchesScope(lab, state.Scope)
}

func matchesSearch(lab models.Laboratory, query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(lab.Name), query) ||
		strings.Contains(strings.ToLower(lab.Description), query) ||
		strings.Contains(strings.ToLower(lab.Building), query)
}

func matchesScope(lab models.Laboratory, scope Scope) bool {
	if scope.OpenOnly && lab.Status != models.LabStatusOpen {
		return false
	}
	if scope.Building != "" && lab.Building != scope.Building {
		return false
	}
	return true
}

// BuildScopes assembles the preset table: the two built-ins plus one preset
// per configured building.
func BuildScopes(buildings []string) map[string]Scope {
	scopes := map[string]Scope{
		SelectorAll: {Name: SelectorAll},
		"open":      {Name: "open", OpenOnly: true},
	}
	for _, building := range buildings {
		building = strings.TrimSpace(building)
		if building == "" {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(building, " ", "-"))
		scopes[key] = Scope{Name: key, Building: building}
	}
	return scopes
}
