package domain

import "github.com/google/uuid"

// Идентификаторы сущностей. Везде строки (uuid), сущности хранятся в
// арена-мапах id -> entity и ссылаются друг на друга только по id.
// Это упрощает сериализацию и исключает алиасинг между фазами.
type (
	SessionID string
	PlayerID  string
	FactionID string
	SystemID  string
	FleetID   string
	ShipID    string
	ColonyID  string
	HouseID   string
)

// NewID генерирует уникальный идентификатор сущности.
func NewID() string {
	return uuid.NewString()
}

func (id SessionID) String() string { return string(id) }
func (id PlayerID) String() string  { return string(id) }
func (id FactionID) String() string { return string(id) }
func (id SystemID) String() string  { return string(id) }
func (id FleetID) String() string   { return string(id) }
func (id ColonyID) String() string  { return string(id) }

// SessionState - состояние жизненного цикла сессии.
type SessionState uint8

const (
	SessionLobby SessionState = iota
	SessionStarting
	SessionRunning
	SessionPaused
	SessionFinished
	SessionAbandoned
)

var sessionStateNames = map[SessionState]string{
	SessionLobby:     "LOBBY",
	SessionStarting:  "STARTING",
	SessionRunning:   "RUNNING",
	SessionPaused:    "PAUSED",
	SessionFinished:  "FINISHED",
	SessionAbandoned: "ABANDONED",
}

func (s SessionState) String() string {
	if name, ok := sessionStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ResourceKind - виды ресурсов казны фракции.
type ResourceKind string

const (
	ResourceCredits  ResourceKind = "credits"
	ResourceMinerals ResourceKind = "minerals"
	ResourceFuel     ResourceKind = "fuel"
	ResourceScience  ResourceKind = "science"
)

// Relation - дипломатическое отношение между двумя фракциями.
type Relation uint8

const (
	RelationNeutral Relation = iota
	RelationAlliance
	RelationTrade
	RelationWar
)

func (r Relation) String() string {
	switch r {
	case RelationAlliance:
		return "ALLIANCE"
	case RelationTrade:
		return "TRADE"
	case RelationWar:
		return "WAR"
	default:
		return "NEUTRAL"
	}
}

// GovernmentKind - форма правления фракции.
type GovernmentKind string

const (
	GovernmentAutocracy  GovernmentKind = "AUTOCRACY"
	GovernmentCouncil    GovernmentKind = "COUNCIL"
	GovernmentFederation GovernmentKind = "FEDERATION"
	GovernmentSyndicate  GovernmentKind = "SYNDICATE"
)

// FleetStance - поведение флота вне боя.
type FleetStance uint8

const (
	StanceNeutral FleetStance = iota
	StanceAggressive
	StanceDefensive
	StanceCloaked
)

func (s FleetStance) String() string {
	switch s {
	case StanceAggressive:
		return "AGGRESSIVE"
	case StanceDefensive:
		return "DEFENSIVE"
	case StanceCloaked:
		return "CLOAKED"
	default:
		return "NEUTRAL"
	}
}

// TerrainFeature - особенность звездной системы, влияющая на бой.
type TerrainFeature uint8

const (
	TerrainOpenSpace TerrainFeature = iota
	TerrainNebula
	TerrainStarProximity
	TerrainAsteroidField
	TerrainWormhole
)

func (t TerrainFeature) String() string {
	switch t {
	case TerrainNebula:
		return "NEBULA"
	case TerrainStarProximity:
		return "STAR_PROXIMITY"
	case TerrainAsteroidField:
		return "ASTEROID_FIELD"
	case TerrainWormhole:
		return "WORMHOLE"
	default:
		return "OPEN_SPACE"
	}
}

// VictoryKind - вид условия победы.
type VictoryKind string

const (
	VictoryDomination  VictoryKind = "DOMINATION"
	VictoryElimination VictoryKind = "ELIMINATION"
	VictoryEconomic    VictoryKind = "ECONOMIC"
	VictoryScientific  VictoryKind = "SCIENTIFIC"
	VictoryDiplomatic  VictoryKind = "DIPLOMATIC"
)

// VictoryCondition - одно настроенное условие победы.
// Threshold интерпретируется по виду: для Domination это процент систем,
// для Economic - размер казны, для Scientific - число технологий.
type VictoryCondition struct {
	Kind      VictoryKind `json:"kind"`
	Threshold int         `json:"threshold"`
}

// TimeMode - режим времени сессии.
type TimeMode uint8

const (
	// TimeModeRelaxed - ход закрывается только когда все сдали приказы.
	TimeModeRelaxed TimeMode = iota
	// TimeModeTimed - по дедлайну несдавшим автоматически сдается пустой пакет.
	TimeModeTimed
)
