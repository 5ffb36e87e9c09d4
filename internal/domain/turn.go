package domain

// CombatOutcome - итоговый тег боя.
type CombatOutcome string

const (
	OutcomeAttackerVictory   CombatOutcome = "ATTACKER_VICTORY"
	OutcomeDefenderVictory   CombatOutcome = "DEFENDER_VICTORY"
	OutcomeStalemate         CombatOutcome = "STALEMATE"
	OutcomeMutualDestruction CombatOutcome = "MUTUAL_DESTRUCTION"
	OutcomeAttackerRetreat   CombatOutcome = "ATTACKER_RETREAT"
	OutcomeDefenderRetreat   CombatOutcome = "DEFENDER_RETREAT"
)

// ShipDamage - урон по одному кораблю за весь бой.
type ShipDamage struct {
	ShipID    ShipID `json:"shipId"`
	FleetID   FleetID `json:"fleetId"`
	Damage    int    `json:"damage"`
	Destroyed bool   `json:"destroyed"`
}

// CombatRecord - запись об одном бою в результатах хода.
type CombatRecord struct {
	SystemID   SystemID      `json:"systemId"`
	AttackerID FactionID     `json:"attackerId"`
	DefenderID FactionID     `json:"defenderId"`
	Outcome    CombatOutcome `json:"outcome"`
	Rounds     int           `json:"rounds"`
	Damage     []ShipDamage  `json:"damage,omitempty"`

	// Флоты сторон. Нужны отчетам: по FleetID урона из Damage нельзя
	// определить сторону, если флот уничтожен и удален из арены.
	AttackerFleet FleetID `json:"attackerFleet"`
	DefenderFleet FleetID `json:"defenderFleet"`

	// Disorder на конец боя по сторонам (для отчетов и обучения игроков).
	AttackerDisorder int `json:"attackerDisorder"`
	DefenderDisorder int `json:"defenderDisorder"`
}

// MovementRecord - перелет флота, завершенный или продвинутый в этом ходе.
type MovementRecord struct {
	FleetID  FleetID  `json:"fleetId"`
	OwnerID  FactionID `json:"ownerId"`
	FromID   SystemID `json:"fromId"`
	ToID     SystemID `json:"toId"`
	Progress float64  `json:"progress"`
	Arrived  bool     `json:"arrived"`
}

// ProductionRecord - завершенная постройка.
type ProductionRecord struct {
	ColonyID   ColonyID      `json:"colonyId"`
	OwnerID    FactionID     `json:"ownerId"`
	Kind       BuildItemKind `json:"kind"`
	DesignName string        `json:"designName"`
}

// ResearchRecord - завершенное исследование.
type ResearchRecord struct {
	FactionID  FactionID `json:"factionId"`
	Technology string    `json:"technology"`
}

// EconomyDelta - чистое изменение казны фракции за ход.
type EconomyDelta struct {
	FactionID FactionID            `json:"factionId"`
	Income    map[ResourceKind]int `json:"income"`
	Expenses  map[ResourceKind]int `json:"expenses"`
}

// Notification - текстовое уведомление; Audience="" значит всем.
type Notification struct {
	Audience FactionID `json:"audience,omitempty"`
	Text     string    `json:"text"`
	Kind     string    `json:"kind"` // INFO, COMBAT, DIPLOMACY, EVENT, ERROR
}

// RejectedCommand - отклоненная команда и причина (уходит только владельцу).
type RejectedCommand struct {
	PlayerID PlayerID    `json:"playerId"`
	Kind     CommandKind `json:"kind"`
	Reason   string      `json:"reason"`
}

// TurnResult - неизменяемая запись всего, что случилось за один ход.
// Добавляется в историю сессии и больше никогда не мутирует.
type TurnResult struct {
	Turn int `json:"turn"`

	Movements  []MovementRecord   `json:"movements,omitempty"`
	Combats    []CombatRecord     `json:"combats,omitempty"`
	Production []ProductionRecord `json:"production,omitempty"`
	Research   []ResearchRecord   `json:"research,omitempty"`
	Economy    []EconomyDelta     `json:"economy,omitempty"`

	Notifications []Notification    `json:"notifications,omitempty"`
	Rejected      []RejectedCommand `json:"rejected,omitempty"`

	// Winner заполняется, если фаза проверки победы закончила сессию.
	Winner    FactionID   `json:"winner,omitempty"`
	VictoryBy VictoryKind `json:"victoryBy,omitempty"`
}
