package domain

import (
	"fmt"
	"time"
)

// Settings - конфигурация сессии, фиксируется при создании.
type Settings struct {
	GalaxySize int `json:"galaxySize" env:"GALAXY_SIZE"`

	MinPlayers int `json:"minPlayers"`
	MaxPlayers int `json:"maxPlayers"`

	// Victory - условия победы в порядке проверки. Первое сработавшее
	// заканчивает сессию.
	Victory []VictoryCondition `json:"victory"`

	TimeMode     TimeMode      `json:"timeMode"`
	TurnDeadline time.Duration `json:"turnDeadline"` // Для TimeModeTimed
}

// DefaultSettings - настройки по умолчанию для новой сессии.
func DefaultSettings() Settings {
	return Settings{
		GalaxySize: 24,
		MinPlayers: 2,
		MaxPlayers: 6,
		Victory: []VictoryCondition{
			{Kind: VictoryDomination, Threshold: 75},
			{Kind: VictoryElimination},
		},
		TimeMode:     TimeModeRelaxed,
		TurnDeadline: 5 * time.Minute,
	}
}

// PlayerSlot - место игрока в сессии.
type PlayerSlot struct {
	PlayerID  PlayerID  `json:"playerId"`
	Name      string    `json:"name"`
	Race      string    `json:"race,omitempty"`
	FactionID FactionID `json:"factionId,omitempty"`
	Ready     bool      `json:"ready"`

	// IsAI: слот играется ботом; такие слоты автоматически сдают пустые
	// пакеты и никогда не блокируют коммит хода.
	IsAI bool `json:"isAi"`

	Connected bool `json:"-"`
}

// Session - верхнеуровневый контейнер партии. Владеет всеми сущностями.
// Инвариант: ровно одно состояние в каждый момент; переходы однонаправленные,
// кроме Running <-> Paused.
type Session struct {
	ID       SessionID    `json:"id"`
	JoinCode string       `json:"joinCode"`
	State    SessionState `json:"state"`
	Settings Settings     `json:"settings"`

	// Seed - мастер-зерно сессии. Вся случайность партии выводится из него.
	Seed int64 `json:"seed"`

	Turn int `json:"turn"`

	Slots map[PlayerID]*PlayerSlot `json:"slots"`

	// Арены сущностей: id -> entity. Ссылки между сущностями только по id.
	Factions map[FactionID]*Faction `json:"factions"`
	Systems  map[SystemID]*System   `json:"systems"`
	Fleets   map[FleetID]*Fleet     `json:"fleets"`
	Colonies map[ColonyID]*Colony   `json:"colonies"`

	// PendingOrders - сданные, но еще не обработанные пакеты этого хода.
	PendingOrders map[PlayerID]*TurnOrders `json:"-"`

	// History - неизменяемые результаты прошедших ходов.
	History []*TurnResult `json:"-"`

	// Intel - память наблюдений: фракция -> чужой флот -> последнее
	// наблюдение. Питает "устаревшие" данные тумана войны.
	Intel map[FactionID]map[FleetID]*Sighting `json:"-"`

	Winner FactionID `json:"winner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewSession создает сессию в лобби.
func NewSession(joinCode string, seed int64, settings Settings) *Session {
	return &Session{
		ID:            SessionID(NewID()),
		JoinCode:      joinCode,
		State:         SessionLobby,
		Settings:      settings,
		Seed:          seed,
		Slots:         make(map[PlayerID]*PlayerSlot),
		Factions:      make(map[FactionID]*Faction),
		Systems:       make(map[SystemID]*System),
		Fleets:        make(map[FleetID]*Fleet),
		Colonies:      make(map[ColonyID]*Colony),
		PendingOrders: make(map[PlayerID]*TurnOrders),
		Intel:         make(map[FactionID]map[FleetID]*Sighting),
		CreatedAt:     time.Now(),
	}
}

// allowedTransitions - машина состояний сессии.
// Starting может откатиться в Lobby (единственный разрешенный откат,
// если генерация галактики провалилась).
var allowedTransitions = map[SessionState][]SessionState{
	SessionLobby:    {SessionStarting, SessionAbandoned},
	SessionStarting: {SessionRunning, SessionLobby},
	SessionRunning:  {SessionPaused, SessionFinished, SessionAbandoned},
	SessionPaused:   {SessionRunning, SessionAbandoned},
}

// TransitionTo переводит сессию в новое состояние, если переход разрешен.
func (s *Session) TransitionTo(next SessionState) error {
	for _, allowed := range allowedTransitions[s.State] {
		if allowed == next {
			s.State = next
			return nil
		}
	}
	return fmt.Errorf("illegal session transition %s -> %s", s.State, next)
}

// CanStart: все слоты готовы, у всех выбрана раса, число игроков в границах.
func (s *Session) CanStart() bool {
	if len(s.Slots) < s.Settings.MinPlayers || len(s.Slots) > s.Settings.MaxPlayers {
		return false
	}
	for _, slot := range s.Slots {
		if !slot.Ready || slot.Race == "" {
			return false
		}
	}
	return true
}

// HumanSlots возвращает не-ИИ слоты.
func (s *Session) HumanSlots() []*PlayerSlot {
	var humans []*PlayerSlot
	for _, slot := range s.Slots {
		if !slot.IsAI {
			humans = append(humans, slot)
		}
	}
	return humans
}

// AllOrdersIn: у каждого не-ИИ слота есть сданный пакет.
// ИИ и пустые слоты не блокируют ход (за них пакеты сдает движок).
func (s *Session) AllOrdersIn() bool {
	for id, slot := range s.Slots {
		if slot.IsAI {
			continue
		}
		if _, ok := s.PendingOrders[id]; !ok {
			return false
		}
	}
	return true
}

// FactionOf возвращает фракцию игрока (nil до старта или для зрителя).
func (s *Session) FactionOf(playerID PlayerID) *Faction {
	slot, ok := s.Slots[playerID]
	if !ok || slot.FactionID == "" {
		return nil
	}
	return s.Factions[slot.FactionID]
}

// FleetsIn возвращает флоты, находящиеся в системе (не в перелете).
func (s *Session) FleetsIn(systemID SystemID) []*Fleet {
	var fleets []*Fleet
	for _, f := range s.Fleets {
		if f.SystemID == systemID && !f.InTransit() {
			fleets = append(fleets, f)
		}
	}
	return fleets
}

// RemoveFleet удаляет флот из арены (инвариант пустого флота).
func (s *Session) RemoveFleet(id FleetID) {
	delete(s.Fleets, id)
}

// ControlledShare возвращает долю систем под контролем фракции в процентах.
func (s *Session) ControlledShare(factionID FactionID) int {
	if len(s.Systems) == 0 {
		return 0
	}
	owned := 0
	for _, sys := range s.Systems {
		if sys.OwnerID == factionID {
			owned++
		}
	}
	return owned * 100 / len(s.Systems)
}

// LastResult возвращает результат последнего хода (nil если ходов не было).
func (s *Session) LastResult() *TurnResult {
	if len(s.History) == 0 {
		return nil
	}
	return s.History[len(s.History)-1]
}
