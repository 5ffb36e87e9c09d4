package galaxy

import (
	"voidreach-server/internal/domain"
)

// Дефолты, на которые опираются генератор и админка.
const (
	DefaultDesignName = "Corvette"
	FleetSpeedDefault = 0.5 // Прыжок между соседями за два хода
)

// ShipDesign - чертеж корабля. Каталог дизайнов статичен; фракционные
// модификаторы (раса, технологии) применяются при постройке.
type ShipDesign struct {
	Name  string
	Class domain.ShipClass

	Hull     int
	Attack   int
	Defense  int
	Accuracy int
	Evasion  int
	Threat   int

	SensorRating     int
	CounterDetection int

	Upkeep     int
	BuildTurns int
	Cost       map[domain.ResourceKind]int

	// Technology - требуемая технология ("" = доступен сразу).
	Technology string
}

// NewShip материализует корабль по чертежу.
func (d *ShipDesign) NewShip() *domain.Ship {
	return &domain.Ship{
		ID:               domain.ShipID(domain.NewID()),
		DesignName:       d.Name,
		Class:            d.Class,
		Hull:             d.Hull,
		MaxHull:          d.Hull,
		Attack:           d.Attack,
		Defense:          d.Defense,
		Accuracy:         d.Accuracy,
		Evasion:          d.Evasion,
		Threat:           d.Threat,
		SensorRating:     d.SensorRating,
		CounterDetection: d.CounterDetection,
		Upkeep:           d.Upkeep,
	}
}

var shipDesigns = map[string]*ShipDesign{
	"Corvette": {
		Name: "Corvette", Class: domain.ShipClassEscort,
		Hull: 60, Attack: 12, Defense: 4, Accuracy: 70, Evasion: 25, Threat: 10,
		SensorRating: 1, Upkeep: 4, BuildTurns: 2,
		Cost: map[domain.ResourceKind]int{domain.ResourceCredits: 80, domain.ResourceMinerals: 40},
	},
	"Destroyer": {
		Name: "Destroyer", Class: domain.ShipClassEscort,
		Hull: 110, Attack: 22, Defense: 8, Accuracy: 65, Evasion: 15, Threat: 25,
		SensorRating: 1, Upkeep: 8, BuildTurns: 3,
		Cost: map[domain.ResourceKind]int{domain.ResourceCredits: 160, domain.ResourceMinerals: 90},
	},
	"Cruiser": {
		Name: "Cruiser", Class: domain.ShipClassCapital,
		Hull: 240, Attack: 40, Defense: 16, Accuracy: 60, Evasion: 8, Threat: 55,
		SensorRating: 1, Upkeep: 18, BuildTurns: 5,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 380, domain.ResourceMinerals: 220},
		Technology: "Capital Hulls",
	},
	"Battleship": {
		Name: "Battleship", Class: domain.ShipClassCapital,
		Hull: 420, Attack: 70, Defense: 28, Accuracy: 55, Evasion: 4, Threat: 90,
		SensorRating: 1, Upkeep: 34, BuildTurns: 8,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 760, domain.ResourceMinerals: 480, domain.ResourceFuel: 120},
		Technology: "Dreadnought Doctrine",
	},
	"Carrier": {
		Name: "Carrier", Class: domain.ShipClassCarrier,
		Hull: 300, Attack: 30, Defense: 12, Accuracy: 62, Evasion: 6, Threat: 70,
		SensorRating: 2, Upkeep: 26, BuildTurns: 7,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 560, domain.ResourceMinerals: 320, domain.ResourceFuel: 80},
		Technology: "Flight Decks",
	},
	"Pathfinder": {
		Name: "Pathfinder", Class: domain.ShipClassScout,
		Hull: 40, Attack: 4, Defense: 2, Accuracy: 72, Evasion: 35, Threat: 5,
		SensorRating: 3, CounterDetection: 2, Upkeep: 3, BuildTurns: 2,
		Cost: map[domain.ResourceKind]int{domain.ResourceCredits: 70, domain.ResourceMinerals: 25},
	},
	"Shade": {
		Name: "Shade", Class: domain.ShipClassScout,
		Hull: 50, Attack: 8, Defense: 2, Accuracy: 68, Evasion: 40, Threat: 15,
		SensorRating: 3, CounterDetection: 4, Upkeep: 7, BuildTurns: 4,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 210, domain.ResourceMinerals: 90},
		Technology: "Phase Cloaking",
	},
	"Tender": {
		Name: "Tender", Class: domain.ShipClassSupport,
		Hull: 90, Attack: 2, Defense: 10, Accuracy: 50, Evasion: 12, Threat: 8,
		SensorRating: 1, Upkeep: 6, BuildTurns: 3,
		Cost: map[domain.ResourceKind]int{domain.ResourceCredits: 120, domain.ResourceMinerals: 60},
	},
}

// DesignByName возвращает чертеж по имени.
func DesignByName(name string) (*ShipDesign, bool) {
	d, ok := shipDesigns[name]
	return d, ok
}

// StructureSpec - чертеж здания колонии.
type StructureSpec struct {
	Name       string
	BuildTurns int
	Cost       map[domain.ResourceKind]int

	// Эффекты после постройки.
	SensorBonus int
	Production  map[domain.ResourceKind]int
}

var structures = map[string]*StructureSpec{
	"Mining Complex": {
		Name: "Mining Complex", BuildTurns: 3,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 200, domain.ResourceMinerals: 50},
		Production: map[domain.ResourceKind]int{domain.ResourceMinerals: 15},
	},
	"Trade Hub": {
		Name: "Trade Hub", BuildTurns: 4,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 300},
		Production: map[domain.ResourceKind]int{domain.ResourceCredits: 25},
	},
	"Fuel Refinery": {
		Name: "Fuel Refinery", BuildTurns: 3,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 180, domain.ResourceMinerals: 80},
		Production: map[domain.ResourceKind]int{domain.ResourceFuel: 12},
	},
	"Research Campus": {
		Name: "Research Campus", BuildTurns: 5,
		Cost:       map[domain.ResourceKind]int{domain.ResourceCredits: 350, domain.ResourceMinerals: 120},
		Production: map[domain.ResourceKind]int{domain.ResourceScience: 10},
	},
	"Sensor Array": {
		Name: "Sensor Array", BuildTurns: 2,
		Cost:        map[domain.ResourceKind]int{domain.ResourceCredits: 150, domain.ResourceMinerals: 60},
		SensorBonus: 2,
	},
}

// StructureByName возвращает чертеж здания по имени.
func StructureByName(name string) (*StructureSpec, bool) {
	s, ok := structures[name]
	return s, ok
}

// Technology - узел дерева технологий.
type Technology struct {
	Name   string
	Cost   int // Очки науки
	Prereq []string
}

var technologies = map[string]*Technology{
	"Capital Hulls":        {Name: "Capital Hulls", Cost: 120},
	"Dreadnought Doctrine": {Name: "Dreadnought Doctrine", Cost: 400, Prereq: []string{"Capital Hulls"}},
	"Flight Decks":         {Name: "Flight Decks", Cost: 260, Prereq: []string{"Capital Hulls"}},
	"Phase Cloaking":       {Name: "Phase Cloaking", Cost: 300},
	"Deep Scanning":        {Name: "Deep Scanning", Cost: 150},
	"Orbital Agriculture":  {Name: "Orbital Agriculture", Cost: 100},
}

// TechnologyByName возвращает технологию по имени.
func TechnologyByName(name string) (*Technology, bool) {
	t, ok := technologies[name]
	return t, ok
}

// RacePreset - стартовый профиль расы. Явные параметры вместо скрытых
// глобальных модификаторов: лобби выбирает пресет, генератор применяет его
// к стартовой колонии и флоту.
type RacePreset struct {
	Name string

	StartingTreasury map[domain.ResourceKind]int
	StartingDesigns  []string // Дизайны стартового флота
	ColonyProduction map[domain.ResourceKind]int
	SensorRange      int
	Government       domain.GovernmentKind
}

var races = map[string]*RacePreset{
	"Terran Accord": {
		Name:             "Terran Accord",
		StartingTreasury: map[domain.ResourceKind]int{domain.ResourceCredits: 500, domain.ResourceMinerals: 200, domain.ResourceFuel: 100},
		StartingDesigns:  []string{"Corvette", "Corvette", "Destroyer", "Pathfinder"},
		ColonyProduction: map[domain.ResourceKind]int{domain.ResourceCredits: 40, domain.ResourceMinerals: 20, domain.ResourceScience: 5},
		SensorRange:      2,
		Government:       domain.GovernmentFederation,
	},
	"Vor Dominion": {
		Name:             "Vor Dominion",
		StartingTreasury: map[domain.ResourceKind]int{domain.ResourceCredits: 400, domain.ResourceMinerals: 300, domain.ResourceFuel: 100},
		StartingDesigns:  []string{"Corvette", "Destroyer", "Destroyer"},
		ColonyProduction: map[domain.ResourceKind]int{domain.ResourceCredits: 30, domain.ResourceMinerals: 35, domain.ResourceScience: 3},
		SensorRange:      1,
		Government:       domain.GovernmentAutocracy,
	},
	"Ilyr Combine": {
		Name:             "Ilyr Combine",
		StartingTreasury: map[domain.ResourceKind]int{domain.ResourceCredits: 650, domain.ResourceMinerals: 150, domain.ResourceFuel: 80},
		StartingDesigns:  []string{"Corvette", "Corvette", "Tender", "Pathfinder"},
		ColonyProduction: map[domain.ResourceKind]int{domain.ResourceCredits: 55, domain.ResourceMinerals: 15, domain.ResourceScience: 4},
		SensorRange:      1,
		Government:       domain.GovernmentSyndicate,
	},
	"Seph Collective": {
		Name:             "Seph Collective",
		StartingTreasury: map[domain.ResourceKind]int{domain.ResourceCredits: 450, domain.ResourceMinerals: 200, domain.ResourceFuel: 120},
		StartingDesigns:  []string{"Corvette", "Pathfinder", "Pathfinder"},
		ColonyProduction: map[domain.ResourceKind]int{domain.ResourceCredits: 35, domain.ResourceMinerals: 20, domain.ResourceScience: 9},
		SensorRange:      3,
		Government:       domain.GovernmentCouncil,
	},
}

// RaceByName возвращает пресет расы.
func RaceByName(name string) (*RacePreset, bool) {
	r, ok := races[name]
	return r, ok
}

// RaceNames возвращает имена доступных рас (для лобби).
func RaceNames() []string {
	names := make([]string, 0, len(races))
	for name := range races {
		names = append(names, name)
	}
	return names
}
