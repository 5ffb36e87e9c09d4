package domain

// Position - координаты системы на звездной карте (для клиента и генератора).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// System - звездная система, узел графа галактики.
type System struct {
	ID       SystemID  `json:"id"`
	Name     string    `json:"name"`
	Pos      Position  `json:"pos"`
	OwnerID  FactionID `json:"ownerId,omitempty"` // "" = ничья
	ColonyID ColonyID  `json:"colonyId,omitempty"`

	// Adjacent - соседние системы (гиперлинии). Граф ненаправленный:
	// генератор обязан прописывать ребра в обе стороны.
	Adjacent []SystemID `json:"adjacent"`

	// Terrain - особенности системы, влияющие на бой (симметрично для
	// обеих сторон).
	Terrain []TerrainFeature `json:"terrain,omitempty"`
}

// HasTerrain проверяет наличие особенности.
func (s *System) HasTerrain(t TerrainFeature) bool {
	for _, f := range s.Terrain {
		if f == t {
			return true
		}
	}
	return false
}

// IsAdjacent проверяет смежность с другой системой.
func (s *System) IsAdjacent(other SystemID) bool {
	for _, id := range s.Adjacent {
		if id == other {
			return true
		}
	}
	return false
}

// BuildItemKind - что строит колония.
type BuildItemKind uint8

const (
	BuildShipItem BuildItemKind = iota
	BuildStructureItem
)

// BuildItem - элемент очереди постройки колонии.
type BuildItem struct {
	ID         string        `json:"id"`
	Kind       BuildItemKind `json:"kind"`
	DesignName string        `json:"designName"` // Дизайн корабля или тип здания
	TurnsLeft  int           `json:"turnsLeft"`
	Cost       map[ResourceKind]int `json:"cost"` // Уже списан при постановке
}

// Colony - колония в системе.
type Colony struct {
	ID       ColonyID  `json:"id"`
	OwnerID  FactionID `json:"ownerId"`
	SystemID SystemID  `json:"systemId"`

	Population int `json:"population"`

	// Production - выход ресурсов за ход до налоговой политики.
	Production map[ResourceKind]int `json:"production"`

	Buildings []string `json:"buildings,omitempty"`

	// SensorRange - радиус сенсоров колонии в прыжках.
	SensorRange int `json:"sensorRange"`

	// BuildQueue - очередь построек, продвигается в фазе производства.
	BuildQueue []*BuildItem `json:"buildQueue,omitempty"`
}
