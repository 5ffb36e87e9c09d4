package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID игрока, от имени которого выполняется действие.
	// Обязателен только для первого сообщения "LOGIN".
	Token string `json:"token,omitempty"`

	// Action название действия (LOGIN, JOIN_SESSION, SUBMIT_ORDERS...).
	Action string `json:"action"`

	// Payload JSON-объект с данными. Структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads лобби ---

// CreateSessionPayload создает новую сессию.
type CreateSessionPayload struct {
	Name       string `json:"name" validate:"required,min=1,max=40"`
	GalaxySize int    `json:"galaxySize,omitempty" validate:"omitempty,min=8,max=128"`
	MinPlayers int    `json:"minPlayers,omitempty" validate:"omitempty,min=1,max=12"`
	MaxPlayers int    `json:"maxPlayers,omitempty" validate:"omitempty,min=1,max=12"`
}

// JoinSessionPayload подключает игрока к сессии по коду.
type JoinSessionPayload struct {
	JoinCode string `json:"joinCode" validate:"required"`
	Name     string `json:"name" validate:"required,min=1,max=40"`
}

// SelectRacePayload выбирает расу в лобби.
type SelectRacePayload struct {
	Race string `json:"race" validate:"required"`
}

// ReadyPayload выставляет готовность слота.
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// --- Payloads приказов ---

// OrderEntry - одна команда в пакете приказов.
// Kind парсится на сервере в domain.CommandKind; неизвестный kind
// отклоняется с причиной, НЕ ломая остальной пакет.
type OrderEntry struct {
	Kind    string          `json:"kind" validate:"required"`
	Payload json.RawMessage `json:"payload"`
}

// SubmitOrdersPayload - пакет приказов игрока на текущий ход.
// Повторная подача ЗАМЕНЯЕТ предыдущий пакет (пока ход не начал обсчитываться).
// Пустой пакет легален: это явный пас.
type SubmitOrdersPayload struct {
	Commands []OrderEntry `json:"commands" validate:"dive"`
}

// BattleOrderPayload - живой приказ в идущий бой (между раундами).
type BattleOrderPayload struct {
	FleetID   string   `json:"fleetId" validate:"required"`
	Kind      string   `json:"kind" validate:"required"`
	Formation string   `json:"formation,omitempty"`
	Targeting []string `json:"targeting,omitempty"`
}

// --- Payloads команд (kind-специфичные, парсятся хендлерами) ---

// MoveFleetPayload: MOVE_FLEET
type MoveFleetPayload struct {
	FleetID        string `json:"fleetId" validate:"required"`
	TargetSystemID string `json:"targetSystemId" validate:"required"`
}

// FleetStancePayload: SET_FLEET_STANCE
type FleetStancePayload struct {
	FleetID string `json:"fleetId" validate:"required"`
	Stance  string `json:"stance" validate:"required,oneof=NEUTRAL AGGRESSIVE DEFENSIVE CLOAKED"`
}

// DoctrinePayload: SET_DOCTRINE
type DoctrinePayload struct {
	FleetID  string          `json:"fleetId" validate:"required"`
	Doctrine json.RawMessage `json:"doctrine" validate:"required"`
}

// TrainFleetPayload: TRAIN_FLEET
type TrainFleetPayload struct {
	FleetID string `json:"fleetId" validate:"required"`
}

// MergeFleetsPayload: MERGE_FLEETS (Source вливается в Target)
type MergeFleetsPayload struct {
	SourceFleetID string `json:"sourceFleetId" validate:"required"`
	TargetFleetID string `json:"targetFleetId" validate:"required"`
}

// SplitFleetPayload: SPLIT_FLEET
type SplitFleetPayload struct {
	FleetID string   `json:"fleetId" validate:"required"`
	ShipIDs []string `json:"shipIds" validate:"required,min=1"`
}

// BuildShipPayload: BUILD_SHIP
type BuildShipPayload struct {
	ColonyID   string `json:"colonyId" validate:"required"`
	DesignName string `json:"designName" validate:"required"`
}

// BuildStructurePayload: BUILD_STRUCTURE
type BuildStructurePayload struct {
	ColonyID  string `json:"colonyId" validate:"required"`
	Structure string `json:"structure" validate:"required"`
}

// CancelBuildPayload: CANCEL_BUILD
type CancelBuildPayload struct {
	ColonyID string `json:"colonyId" validate:"required"`
	ItemID   string `json:"itemId" validate:"required"`
}

// ResearchPayload: START_RESEARCH
type ResearchPayload struct {
	Technology string `json:"technology" validate:"required"`
}

// TaxPolicyPayload: SET_TAX_POLICY
type TaxPolicyPayload struct {
	Percent int `json:"percent" validate:"min=0,max=50"`
}

// DiplomacyPayload: DECLARE_WAR, PROPOSE_PEACE, OFFER_TRADE
type DiplomacyPayload struct {
	TargetFactionID string `json:"targetFactionId" validate:"required"`
}

// ScoutPayload: SCOUT_SYSTEM
type ScoutPayload struct {
	FleetID        string `json:"fleetId" validate:"required"`
	TargetSystemID string `json:"targetSystemId" validate:"required"`
}

// FoundHousePayload: FOUND_HOUSE
type FoundHousePayload struct {
	Name    string `json:"name" validate:"required,min=1,max=40"`
	Charter string `json:"charter" validate:"required"`
}

// HouseSeatPayload: ASSIGN_HOUSE_SEAT
type HouseSeatPayload struct {
	HouseID  string `json:"houseId" validate:"required"`
	Seat     string `json:"seat" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
}

// --- Payloads админки (bypass валидации, только для отладки/операторов) ---

// AdminSpawnFleetPayload: ADMIN_SPAWN_FLEET
type AdminSpawnFleetPayload struct {
	FactionID string `json:"factionId" validate:"required"`
	SystemID  string `json:"systemId" validate:"required"`
	Design    string `json:"design"`
	Count     int    `json:"count" validate:"omitempty,min=1,max=100"`
}

// AdminGrantPayload: ADMIN_GRANT_RESOURCES
type AdminGrantPayload struct {
	FactionID string `json:"factionId" validate:"required"`
	Resource  string `json:"resource" validate:"required"`
	Amount    int    `json:"amount" validate:"required"`
}

// AdminTeleportPayload: ADMIN_TELEPORT_FLEET
type AdminTeleportPayload struct {
	FleetID  string `json:"fleetId" validate:"required"`
	SystemID string `json:"systemId" validate:"required"`
}

// AdminForceCombatPayload: ADMIN_FORCE_COMBAT
type AdminForceCombatPayload struct {
	FleetA string `json:"fleetA" validate:"required"`
	FleetB string `json:"fleetB" validate:"required"`
}

// AdminSkipTurnsPayload: ADMIN_SKIP_TURNS (авто-сдача пустых пакетов N раз)
type AdminSkipTurnsPayload struct {
	Turns int `json:"turns" validate:"min=1,max=100"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerMessage это корневой объект, который сервер отправляет клиенту.
type ServerMessage struct {
	// Type: LOBBY, TURN_RESULT, ORDERS_ACK, BATTLE_PROMPT, ERROR, INFO
	Type string `json:"type"`

	// Session - снимок лобби/сессии (для Type=LOBBY).
	Session *SessionView `json:"session,omitempty"`

	// Result - персональный срез результата хода (для Type=TURN_RESULT).
	Result *TurnResultView `json:"result,omitempty"`

	// Galaxy - персональный срез галактики после хода (туман войны).
	Galaxy *GalaxyView `json:"galaxy,omitempty"`

	// Rejected - отклоненные команды последнего пакета (для Type=ORDERS_ACK).
	Rejected []RejectionView `json:"rejected,omitempty"`
	Accepted int             `json:"accepted,omitempty"`

	// Battle - снимок идущего боя (для Type=BATTLE_PROMPT).
	Battle *BattlePromptView `json:"battle,omitempty"`

	Error string `json:"error,omitempty"`
	Info  string `json:"info,omitempty"`
}

// BattlePromptView - снимок боя между раундами. Сервер шлет его стороне,
// у которой есть окно на живой приказ; ответ - BATTLE_ORDER с FleetID.
type BattlePromptView struct {
	SystemID string `json:"systemId"`
	FleetID  string `json:"fleetId"`
	Round    int    `json:"round"`

	OwnLossPercent   int `json:"ownLossPercent"`
	EnemyLossPercent int `json:"enemyLossPercent"`
	Disorder         int `json:"disorder"`
}

// SessionView - снимок сессии для клиента.
type SessionView struct {
	ID       string     `json:"id"`
	JoinCode string     `json:"joinCode"`
	State    string     `json:"state"`
	Turn     int        `json:"turn"`
	CanStart bool       `json:"canStart"`
	Slots    []SlotView `json:"slots"`
	Winner   string     `json:"winner,omitempty"`
}

// SlotView - слот игрока в лобби.
type SlotView struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Race     string `json:"race,omitempty"`
	Ready    bool   `json:"ready"`
	IsAI     bool   `json:"isAi"`
}

// RejectionView - причина отклонения одной команды.
type RejectionView struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// TurnResultView - персональный (отфильтрованный туманом войны) срез
// результата хода.
type TurnResultView struct {
	Turn int `json:"turn"`

	Movements  []MovementView   `json:"movements,omitempty"`
	Combats    []CombatView     `json:"combats,omitempty"`
	Production []ProductionView `json:"production,omitempty"`
	Research   []string         `json:"researchCompletions,omitempty"`
	Economy    *EconomyView     `json:"economy,omitempty"`

	Notifications []string `json:"notifications,omitempty"`

	Winner string `json:"winner,omitempty"`
}

// MovementView - видимый наблюдателю перелет.
type MovementView struct {
	FleetID  string  `json:"fleetId"`
	FromID   string  `json:"fromId"`
	ToID     string  `json:"toId"`
	Progress float64 `json:"progress"`
	Arrived  bool    `json:"arrived"`
}

// CombatView - видимый наблюдателю бой.
type CombatView struct {
	SystemID string `json:"systemId"`
	Attacker string `json:"attacker"`
	Defender string `json:"defender"`
	Outcome  string `json:"outcome"`
	Rounds   int    `json:"rounds"`

	// ShipsLost - потери по своим кораблям (детально) и чужим (числом).
	OwnDamage  []ShipDamageView `json:"ownDamage,omitempty"`
	EnemyLost  int              `json:"enemyLost,omitempty"`
	Disorder   int              `json:"disorder,omitempty"` // Свой disorder на конец боя
}

// ShipDamageView - урон по одному своему кораблю.
type ShipDamageView struct {
	ShipID    string `json:"shipId"`
	Damage    int    `json:"damage"`
	Destroyed bool   `json:"destroyed"`
}

// ProductionView - завершенная постройка.
type ProductionView struct {
	ColonyID   string `json:"colonyId"`
	Kind       string `json:"kind"`
	DesignName string `json:"designName"`
}

// EconomyView - экономический итог фракции наблюдателя.
type EconomyView struct {
	Income   map[string]int `json:"income"`
	Expenses map[string]int `json:"expenses"`
	Treasury map[string]int `json:"treasury"`
}

// --- Галактика (туман войны) ---

// GalaxyView - персональный срез галактики.
type GalaxyView struct {
	Systems []SystemView `json:"systems"`
	Fleets  []FleetView  `json:"fleets"`
}

// SystemView - видимая система. Detail: OWNED, VISIBLE, KNOWN
// (KNOWN = только факт существования, по смежности).
type SystemView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	OwnerID  string   `json:"ownerId,omitempty"`
	Adjacent []string `json:"adjacent,omitempty"`
	Terrain  []string `json:"terrain,omitempty"`
	Detail   string   `json:"detail"`
}

// FleetView - видимый флот. Для чужих флотов точных цифр нет:
// только оценка силы и уверенность в данных.
type FleetView struct {
	ID       string `json:"id"`
	OwnerID  string `json:"ownerId"`
	SystemID string `json:"systemId"`
	Own      bool   `json:"own"`

	// Для своих флотов.
	Ships    int    `json:"ships,omitempty"`
	Strength int    `json:"strength,omitempty"`
	Stance   string `json:"stance,omitempty"`
	Drill    int    `json:"drill,omitempty"`

	// Для чужих флотов.
	EstimatedStrength string `json:"estimatedStrength,omitempty"` // Полоса: TRIVIAL/MODERATE/STRONG/OVERWHELMING
	Confidence        int    `json:"confidence,omitempty"`        // 0..100, падает с возрастом данных
}
