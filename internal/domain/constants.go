package domain

// Константы беспорядка (disorder). Живой приказ в бою сбивает строй:
// штраф копится и линейно режет боевой выход вплоть до полного игнора приказов.
const (
	// DisorderBase - базовый штраф за любой ручной приказ в бою.
	DisorderBase = 15
	// DisorderNoCommander - доплата, если командира нет на месте
	// (удаленная/автоматизированная ретрансляция).
	DisorderNoCommander = 25
	// DisorderRapidChange - доплата, если новый приказ пришел меньше чем
	// через раунд после предыдущего.
	DisorderRapidChange = 20
	// DisorderPerPriorChange - доплата за каждый уже сделанный приказ в этом бою.
	DisorderPerPriorChange = 5
	// DisorderDrillReductionCap - максимум, который может снять выучка экипажа.
	DisorderDrillReductionCap = 20
	// DisorderMax - жесткий потолок. На 100 приказы игнорируются, бой
	// продолжается на последней валидной доктрине. Это НЕ ошибка.
	DisorderMax = 100
)

// Параметры боя.
const (
	// CombatStalemateRounds - лимит раундов до ничьей.
	CombatStalemateRounds = 30
	// DrillMax - потолок выучки флота.
	DrillMax = 100
	// DrillPerTraining - прирост выучки за одну команду тренировки.
	DrillPerTraining = 10
)

// Параметры видимости.
const (
	// SensorRangeDefault - базовый радиус сенсоров (в прыжках по графу систем).
	SensorRangeDefault = 1
	// ConfidenceDecayPerTurn - на сколько падает уверенность в устаревших
	// данных о чужом флоте за ход.
	ConfidenceDecayPerTurn = 25
)

// Экономика.
const (
	// TaxPolicyMin/Max - допустимые ставки налога в процентах.
	TaxPolicyMin = 0
	TaxPolicyMax = 50
)
