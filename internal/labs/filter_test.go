package labs

import (
	"testing"

	"labhouse/pkg/models"

	"github.com/stretchr/testify/assert"
)

func sampleLabs() []models.Laboratory {
	return []models.Laboratory{
		{ID: 1, Name: "Physics Lab A", Description: "Optics and mechanics", Building: "Science Hall", Floor: 1, Status: models.LabStatusOpen, Type: models.LabTypeScience},
		{ID: 2, Name: "Computer Lab 2", Description: "General purpose workstations", Building: "Engineering Block", Floor: 2, Status: models.LabStatusOpen, Type: models.LabTypeComputer},
		{ID: 3, Name: "Biology Wet Lab", Description: "Microscopy and physics crossover gear", Building: "Science Hall", Floor: 3, Status: models.LabStatusClosed, Type: models.LabTypeBiology},
		{ID: 4, Name: "Electronics Bench", Description: "Soldering stations", Building: "Engineering Block", Floor: 1, Status: models.LabStatusClosed, Type: models.LabTypeElectronics},
	}
}

func TestFilterDefaultStatePassesEverything(t *testing.T) {
	labs := sampleLabs()
	result := Filter(labs, DefaultFilterState())
	assert.Equal(t, labs, result)
}

func TestFilterIsIdempotent(t *testing.T) {
	labs := sampleLabs()
	state := DefaultFilterState()
	state.Search = "lab"

	first := Filter(labs, state)
	second := Filter(labs, state)
	assert.Equal(t, first, second)
}

func TestFilterIsConservative(t *testing.T) {
	labs := sampleLabs()
	state := DefaultFilterState()
	state.Search = "engineering"

	result := Filter(labs, state)

	// Every survivor comes from the input, in input order.
	lastIndex := -1
	for _, lab := range result {
		found := -1
		for i, in := range labs {
			if in.ID == lab.ID {
				found = i
				break
			}
		}
		assert.GreaterOrEqual(t, found, 0)
		assert.Greater(t, found, lastIndex)
		lastIndex = found
	}
	assert.LessOrEqual(t, len(result), len(labs))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	labs := sampleLabs()
	state := DefaultFilterState()
	state.Search = "physics"

	_ = Filter(labs, state)
	assert.Equal(t, sampleLabs(), labs)
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	state := DefaultFilterState()
	state.Search = "PHYSICS"

	result := Filter(sampleLabs(), state)

	// Matches name of lab 1 and description of lab 3.
	assert.Len(t, result, 2)
	assert.Equal(t, 1, result[0].ID)
	assert.Equal(t, 3, result[1].ID)
}

func TestFilterSearchCoversBuilding(t *testing.T) {
	state := DefaultFilterState()
	state.Search = "science hall"

	result := Filter(sampleLabs(), state)
	assert.Len(t, result, 2)
}

func TestFilterStatusToggles(t *testing.T) {
	state := DefaultFilterState()
	state.StatusToggles = map[models.LabStatus]bool{models.LabStatusOpen: true}

	result := Filter(sampleLabs(), state)
	assert.Len(t, result, 2)
	for _, lab := range result {
		assert.Equal(t, models.LabStatusOpen, lab.Status)
	}
}

func TestFilterMissingToggleFailsClosed(t *testing.T) {
	state := DefaultFilterState()
	state.TypeToggles = map[models.LabType]bool{} // nothing enabled

	assert.Empty(t, Filter(sampleLabs(), state))
}

func TestFilterBuildingAndFloorSelectors(t *testing.T) {
	state := DefaultFilterState()
	state.Building = "Engineering Block"
	state.Floor = "1"

	result := Filter(sampleLabs(), state)
	assert.Len(t, result, 1)
	assert.Equal(t, 4, result[0].ID)
}

func TestFilterTypeDropdownIndependentOfToggles(t *testing.T) {
	state := DefaultFilterState()
	state.Type = string(models.LabTypeComputer)
	// Toggle set excludes computer labs: both dimensions must pass.
	state.TypeToggles = map[models.LabType]bool{models.LabTypeScience: true}

	assert.Empty(t, Filter(sampleLabs(), state))

	state.TypeToggles[models.LabTypeComputer] = true
	result := Filter(sampleLabs(), state)
	assert.Len(t, result, 1)
	assert.Equal(t, 2, result[0].ID)
}

func TestFilterScopes(t *testing.T) {
	scopes := BuildScopes([]string{"Science Hall"})

	state := DefaultFilterState()
	state.Scope = scopes["open"]
	result := Filter(sampleLabs(), state)
	assert.Len(t, result, 2)
	for _, lab := range result {
		assert.Equal(t, models.LabStatusOpen, lab.Status)
	}

	state = DefaultFilterState()
	state.Scope = scopes["science-hall"]
	result = Filter(sampleLabs(), state)
	assert.Len(t, result, 2)
	for _, lab := range result {
		assert.Equal(t, "Science Hall", lab.Building)
	}
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, DefaultFilterState()))
	assert.Empty(t, Filter([]models.Laboratory{}, DefaultFilterState()))
}

func TestBuildScopes(t *testing.T) {
	scopes := BuildScopes([]string{"Science Hall", " ", ""})

	assert.Contains(t, scopes, "all")
	assert.Contains(t, scopes, "open")
	assert.Contains(t, scopes, "science-hall")
	assert.Len(t, scopes, 3)
	assert.Equal(t, "Science Hall", scopes["science-hall"].Building)
}

func TestToFilterStateUnknownValuesRejected(t *testing.T) {
	scopes := BuildScopes(nil)

	q := listLabsQuery{Statuses: []string{"demolished"}}
	_, err := q.ToFilterState(scopes)
	assert.Error(t, err)

	q = listLabsQuery{Types: []string{"alchemy"}}
	_, err = q.ToFilterState(scopes)
	assert.Error(t, err)

	q = listLabsQuery{Scope: "nonexistent"}
	_, err = q.ToFilterState(scopes)
	assert.Error(t, err)
}

func TestToFilterStateDefaults(t *testing.T) {
	q := listLabsQuery{}
	state, err := q.ToFilterState(BuildScopes(nil))
	assert.NoError(t, err)
	assert.Equal(t, DefaultFilterState(), state)
}
