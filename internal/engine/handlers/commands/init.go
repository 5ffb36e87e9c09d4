package commands

import (
	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine/handlers"
)

// Registry собирает хендлеры всех видов команд.
// Новая команда = новая запись здесь + пара Validate/Execute в своем файле.
func Registry() map[domain.CommandKind]handlers.Handler {
	return map[domain.CommandKind]handlers.Handler{
		domain.CommandMoveFleet:      {Validate: ValidateMoveFleet, Execute: ExecuteMoveFleet},
		domain.CommandSetFleetStance: {Validate: ValidateSetStance, Execute: ExecuteSetStance},
		domain.CommandSetDoctrine:    {Validate: ValidateSetDoctrine, Execute: ExecuteSetDoctrine},
		domain.CommandTrainFleet:     {Validate: ValidateTrainFleet, Execute: ExecuteTrainFleet},
		domain.CommandMergeFleets:    {Validate: ValidateMergeFleets, Execute: ExecuteMergeFleets},
		domain.CommandSplitFleet:     {Validate: ValidateSplitFleet, Execute: ExecuteSplitFleet},

		domain.CommandBuildShip:      {Validate: ValidateBuildShip, Execute: ExecuteBuildShip},
		domain.CommandBuildStructure: {Validate: ValidateBuildStructure, Execute: ExecuteBuildStructure},
		domain.CommandCancelBuild:    {Validate: ValidateCancelBuild, Execute: ExecuteCancelBuild},

		domain.CommandStartResearch: {Validate: ValidateStartResearch, Execute: ExecuteStartResearch},
		domain.CommandSetTaxPolicy:  {Validate: ValidateSetTaxPolicy, Execute: ExecuteSetTaxPolicy},

		domain.CommandDeclareWar:   {Validate: ValidateDeclareWar, Execute: ExecuteDeclareWar},
		domain.CommandProposePeace: {Validate: ValidateProposePeace, Execute: ExecuteProposePeace},
		domain.CommandOfferTrade:   {Validate: ValidateOfferTrade, Execute: ExecuteOfferTrade},

		domain.CommandScoutSystem: {Validate: ValidateScoutSystem, Execute: ExecuteScoutSystem},

		domain.CommandFoundHouse:      {Validate: ValidateFoundHouse, Execute: ExecuteFoundHouse},
		domain.CommandAssignHouseSeat: {Validate: ValidateAssignSeat, Execute: ExecuteAssignSeat},
	}
}
