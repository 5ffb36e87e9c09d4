package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStructTags(t *testing.T) {
	err := ValidateStruct(CreateSessionPayload{Name: "Alice"})
	assert.NoError(t, err)

	err = ValidateStruct(CreateSessionPayload{})
	assert.Error(t, err, "name is required")

	err = ValidateStruct(CreateSessionPayload{Name: "Alice", GalaxySize: 3})
	assert.Error(t, err, "galaxy below minimum size")
}

func TestValidateStructCrossField(t *testing.T) {
	err := ValidateStruct(CreateSessionPayload{Name: "Alice", MinPlayers: 4, MaxPlayers: 2})
	assert.EqualError(t, err, "minPlayers cannot exceed maxPlayers")
}

func TestSubmitOrdersEmptyBatchIsAPass(t *testing.T) {
	// An empty batch is how a player passes the turn.
	err := ValidateStruct(SubmitOrdersPayload{})
	assert.NoError(t, err)
}

func TestSplitFleetRejectsDuplicateShips(t *testing.T) {
	err := ValidateStruct(SplitFleetPayload{FleetID: "f1", ShipIDs: []string{"s1", "s1"}})
	assert.EqualError(t, err, "duplicate ship id in split")

	err = ValidateStruct(SplitFleetPayload{FleetID: "f1", ShipIDs: []string{"s1", "s2"}})
	assert.NoError(t, err)
}
