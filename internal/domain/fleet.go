package domain

// ShipClass - класс корабля. Определяет, под какую категорию целей он попадает.
type ShipClass string

const (
	ShipClassCapital ShipClass = "CAPITAL"
	ShipClassEscort  ShipClass = "ESCORT"
	ShipClassCarrier ShipClass = "CARRIER"
	ShipClassSupport ShipClass = "SUPPORT"
	ShipClassScout   ShipClass = "SCOUT"
)

// Ship - один корабль в составе флота.
type Ship struct {
	ID         ShipID    `json:"id"`
	DesignName string    `json:"designName"`
	Class      ShipClass `json:"class"`

	Hull    int `json:"hull"`
	MaxHull int `json:"maxHull"`

	Attack   int `json:"attack"`
	Defense  int `json:"defense"`
	Accuracy int `json:"accuracy"` // Базовый шанс попадания, проценты
	Evasion  int `json:"evasion"`  // Вычитается из шанса попадания

	// Threat - насколько корабль опасен. Используется для разрешения ничьих
	// при выборе цели (выше threat -> стреляют первым по нему).
	Threat int `json:"threat"`

	// SensorRating / CounterDetection - сенсоры и контр-обнаружение
	// (против скрытых флотов).
	SensorRating     int `json:"sensorRating"`
	CounterDetection int `json:"counterDetection"`

	Upkeep int `json:"upkeep"` // Содержание за ход, в кредитах
}

// IsDestroyed сообщает, выведен ли корабль из строя.
func (s *Ship) IsDestroyed() bool {
	return s.Hull <= 0
}

// Fleet - флот фракции. Инвариант: флот без кораблей удаляется из сессии;
// флот никогда не принадлежит двум фракциям.
type Fleet struct {
	ID      FleetID   `json:"id"`
	Name    string    `json:"name"`
	OwnerID FactionID `json:"ownerId"`

	SystemID      SystemID `json:"systemId"`      // Текущая система
	DestinationID SystemID `json:"destinationId"` // Куда летит ("" если стоит)
	Progress      float64  `json:"progress"`      // 0..1 прогресс перелета
	Speed         float64  `json:"speed"`         // Доля пути за ход

	Stance FleetStance `json:"stance"`

	Ships []*Ship `json:"ships"`

	// Doctrine - предзаявленный боевой профиль. nil = в бою возьмется дефолт.
	Doctrine *BattleDoctrine `json:"doctrine,omitempty"`

	// Drill - накопленная выучка (тренировки). Снижает беспорядок в бою.
	Drill int `json:"drill"`

	// CommanderPresent - есть ли на флагмане живой командир. Влияет на цену
	// ручных приказов в бою.
	CommanderPresent bool `json:"commanderPresent"`
}

// InTransit сообщает, находится ли флот в перелете.
func (f *Fleet) InTransit() bool {
	return f.DestinationID != ""
}

// TotalHull возвращает суммарный остаток корпусов живых кораблей.
func (f *Fleet) TotalHull() int {
	total := 0
	for _, s := range f.Ships {
		if !s.IsDestroyed() {
			total += s.Hull
		}
	}
	return total
}

// Strength - грубая оценка силы флота (для видимости и ИИ).
func (f *Fleet) Strength() int {
	total := 0
	for _, s := range f.Ships {
		if !s.IsDestroyed() {
			total += s.Attack + s.Defense + s.Hull/10
		}
	}
	return total
}

// AliveShips возвращает живые корабли.
func (f *Fleet) AliveShips() []*Ship {
	alive := make([]*Ship, 0, len(f.Ships))
	for _, s := range f.Ships {
		if !s.IsDestroyed() {
			alive = append(alive, s)
		}
	}
	return alive
}

// Upkeep возвращает суммарное содержание флота за ход.
func (f *Fleet) Upkeep() int {
	total := 0
	for _, s := range f.Ships {
		if !s.IsDestroyed() {
			total += s.Upkeep
		}
	}
	return total
}

// SensorRange - радиус сенсоров флота в прыжках (максимум по кораблям).
func (f *Fleet) SensorRange() int {
	best := 0
	for _, s := range f.Ships {
		if !s.IsDestroyed() && s.SensorRating > best {
			best = s.SensorRating
		}
	}
	if best == 0 {
		return SensorRangeDefault
	}
	return best
}

// CounterDetection - лучшее контр-обнаружение флота.
func (f *Fleet) CounterDetection() int {
	best := 0
	for _, s := range f.Ships {
		if !s.IsDestroyed() && s.CounterDetection > best {
			best = s.CounterDetection
		}
	}
	return best
}
