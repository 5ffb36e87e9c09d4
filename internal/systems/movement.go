package systems

import "voidreach-server/internal/domain"

// AdvanceResult - результат продвижения одного флота за ход.
type AdvanceResult struct {
	Moved    bool
	Arrived  bool
	FromID   domain.SystemID
	ToID     domain.SystemID
	Progress float64
}

// AdvanceFleet продвигает флот в перелете на его скорость.
// При достижении 1.0 флот прибывает: текущая система меняется на целевую,
// прогресс и назначение сбрасываются. Не трогает флоты, которые стоят.
func AdvanceFleet(fleet *domain.Fleet) AdvanceResult {
	if !fleet.InTransit() {
		return AdvanceResult{}
	}

	res := AdvanceResult{
		Moved:  true,
		FromID: fleet.SystemID,
		ToID:   fleet.DestinationID,
	}

	fleet.Progress += fleet.Speed
	if fleet.Progress >= 1.0 {
		fleet.SystemID = fleet.DestinationID
		fleet.DestinationID = ""
		fleet.Progress = 0
		res.Arrived = true
		res.Progress = 1.0
		return res
	}

	res.Progress = fleet.Progress
	return res
}

// BeginTransit ставит флоту назначение. Вызывающий уже проверил смежность
// и право собственности (валидация команды).
func BeginTransit(fleet *domain.Fleet, target domain.SystemID) {
	fleet.DestinationID = target
	fleet.Progress = 0
}
