package domain

// StrengthBand - оценочная полоса силы чужого флота. Точные цифры чужих
// флотов игрокам не сообщаются никогда.
type StrengthBand string

const (
	BandTrivial      StrengthBand = "TRIVIAL"
	BandModerate     StrengthBand = "MODERATE"
	BandStrong       StrengthBand = "STRONG"
	BandOverwhelming StrengthBand = "OVERWHELMING"
)

// Sighting - последнее наблюдение чужого флота фракцией.
// Уверенность в данных падает с каждым ходом (ConfidenceDecayPerTurn).
type Sighting struct {
	FleetID  FleetID      `json:"fleetId"`
	OwnerID  FactionID    `json:"ownerId"`
	SystemID SystemID     `json:"systemId"` // Последняя известная позиция
	Band     StrengthBand `json:"band"`
	SeenTurn int          `json:"seenTurn"`
}

// Confidence возвращает уверенность 0..100 для текущего хода.
func (s *Sighting) Confidence(currentTurn int) int {
	age := currentTurn - s.SeenTurn
	if age < 0 {
		age = 0
	}
	conf := 100 - age*ConfidenceDecayPerTurn
	if conf < 0 {
		conf = 0
	}
	return conf
}
