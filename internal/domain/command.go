package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// CommandKind - Внутренний числовой идентификатор команды.
type CommandKind uint8

const (
	CommandUnknown CommandKind = iota

	// Флотские операции
	CommandMoveFleet
	CommandSetFleetStance
	CommandSetDoctrine
	CommandTrainFleet
	CommandMergeFleets
	CommandSplitFleet

	// Колонии
	CommandBuildShip
	CommandBuildStructure
	CommandCancelBuild

	// Империя
	CommandStartResearch
	CommandSetTaxPolicy

	// Дипломатия
	CommandDeclareWar
	CommandProposePeace
	CommandOfferTrade

	// Разведка
	CommandScoutSystem

	// Дома (суб-фракции)
	CommandFoundHouse
	CommandAssignHouseSeat
)

// PriorityBucket - фазовая корзина команды. Внутри одного хода команды
// исполняются в порядке неубывания корзины НЕЗАВИСИМО от порядка подачи:
// движение флотов всегда раньше построек, дипломатия позже экономики команд.
// Это снимает неоднозначность между игроками, подавшими пакеты в разной
// последовательности.
type PriorityBucket uint8

const (
	BucketFleet PriorityBucket = iota
	BucketColony
	BucketEmpire
	BucketDiplomacy
	BucketIntelligence
	BucketGovernance
)

func (b PriorityBucket) String() string {
	switch b {
	case BucketFleet:
		return "FLEET"
	case BucketColony:
		return "COLONY"
	case BucketEmpire:
		return "EMPIRE"
	case BucketDiplomacy:
		return "DIPLOMACY"
	case BucketIntelligence:
		return "INTELLIGENCE"
	case BucketGovernance:
		return "GOVERNANCE"
	default:
		return "UNKNOWN"
	}
}

// Маппинг для конвертации JSON -> Domain
var commandStringToKind = map[string]CommandKind{
	"MOVE_FLEET":        CommandMoveFleet,
	"SET_FLEET_STANCE":  CommandSetFleetStance,
	"SET_DOCTRINE":      CommandSetDoctrine,
	"TRAIN_FLEET":       CommandTrainFleet,
	"MERGE_FLEETS":      CommandMergeFleets,
	"SPLIT_FLEET":       CommandSplitFleet,
	"BUILD_SHIP":        CommandBuildShip,
	"BUILD_STRUCTURE":   CommandBuildStructure,
	"CANCEL_BUILD":      CommandCancelBuild,
	"START_RESEARCH":    CommandStartResearch,
	"SET_TAX_POLICY":    CommandSetTaxPolicy,
	"DECLARE_WAR":       CommandDeclareWar,
	"PROPOSE_PEACE":     CommandProposePeace,
	"OFFER_TRADE":       CommandOfferTrade,
	"SCOUT_SYSTEM":      CommandScoutSystem,
	"FOUND_HOUSE":       CommandFoundHouse,
	"ASSIGN_HOUSE_SEAT": CommandAssignHouseSeat,
}

// Маппинг для логов Domain -> String
var commandKindToString = func() map[CommandKind]string {
	m := make(map[CommandKind]string, len(commandStringToKind))
	for s, k := range commandStringToKind {
		m[k] = s
	}
	return m
}()

// commandKindToBucket назначает каждой команде ее фазовую корзину.
var commandKindToBucket = map[CommandKind]PriorityBucket{
	CommandMoveFleet:       BucketFleet,
	CommandSetFleetStance:  BucketFleet,
	CommandSetDoctrine:     BucketFleet,
	CommandTrainFleet:      BucketFleet,
	CommandMergeFleets:     BucketFleet,
	CommandSplitFleet:      BucketFleet,
	CommandBuildShip:       BucketColony,
	CommandBuildStructure:  BucketColony,
	CommandCancelBuild:     BucketColony,
	CommandStartResearch:   BucketEmpire,
	CommandSetTaxPolicy:    BucketEmpire,
	CommandDeclareWar:      BucketDiplomacy,
	CommandProposePeace:    BucketDiplomacy,
	CommandOfferTrade:      BucketDiplomacy,
	CommandScoutSystem:     BucketIntelligence,
	CommandFoundHouse:      BucketGovernance,
	CommandAssignHouseSeat: BucketGovernance,
}

// ParseCommandKind конвертирует строку из JSON в CommandKind.
// Нечувствителен к регистру для надежности.
func ParseCommandKind(s string) CommandKind {
	if val, ok := commandStringToKind[strings.ToUpper(s)]; ok {
		return val
	}
	return CommandUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf и логов).
func (k CommandKind) String() string {
	if val, ok := commandKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// Bucket возвращает фазовую корзину команды.
func (k CommandKind) Bucket() PriorityBucket {
	if b, ok := commandKindToBucket[k]; ok {
		return b
	}
	return BucketGovernance
}

// Command - неизменяемая команда игрока. Создается на клиенте, подается в
// составе пакета TurnOrders, валидируется, исполняется или отклоняется и
// выбрасывается. Никогда не мутирует и не переживает ход.
type Command struct {
	Kind     CommandKind     `json:"kind"`
	PlayerID PlayerID        `json:"playerId"`
	Seq      int             `json:"seq"` // Порядковый номер внутри пакета (для стабильной сортировки)
	Payload  json.RawMessage `json:"payload"`
}

// TurnOrders - пакет команд одного игрока на один ход.
// Живет только пока ход открыт; очищается после резолва.
type TurnOrders struct {
	PlayerID    PlayerID  `json:"playerId"`
	Commands    []Command `json:"commands"`
	SubmittedAt time.Time `json:"submittedAt"`
}
