package domain

import "strings"

// Formation - боевое построение флота.
type Formation uint8

const (
	FormationLine Formation = iota
	FormationWedge
	FormationSphere
	FormationScreen
)

func (f Formation) String() string {
	switch f {
	case FormationWedge:
		return "WEDGE"
	case FormationSphere:
		return "SPHERE"
	case FormationScreen:
		return "SCREEN"
	default:
		return "LINE"
	}
}

// EngagementPolicy - политика вступления в бой.
type EngagementPolicy uint8

const (
	EngageBalanced EngagementPolicy = iota
	EngageAggressive
	EngageDefensive
	EngageEvasive
)

// TargetPriority - класс целей в порядке предпочтения.
type TargetPriority string

const (
	TargetCapitals  TargetPriority = "CAPITALS"
	TargetEscorts   TargetPriority = "ESCORTS"
	TargetCarriers  TargetPriority = "CARRIERS"
	TargetSupports  TargetPriority = "SUPPORTS"
	TargetWeakest   TargetPriority = "WEAKEST"
	TargetStrongest TargetPriority = "STRONGEST"
)

// RetreatKind - вид условия отступления.
type RetreatKind uint8

const (
	RetreatNever RetreatKind = iota
	// RetreatOnLossPercent - отступить, когда собственные потери (в % от
	// стартовой силы) достигли порога.
	RetreatOnLossPercent
	// RetreatOnHullPercent - отступить, когда суммарный остаток корпусов
	// упал ниже порога.
	RetreatOnHullPercent
)

// RetreatCondition - предзаявленное условие отступления. Срабатывает
// автоматически и НЕ добавляет беспорядка.
type RetreatCondition struct {
	Kind      RetreatKind `json:"kind"`
	Threshold int         `json:"threshold"` // Проценты, 0..100
}

// TriggerMetric - метрика, по которой срабатывает условный приказ.
type TriggerMetric string

const (
	MetricOwnLossPercent   TriggerMetric = "OWN_LOSS_PERCENT"
	MetricEnemyLossPercent TriggerMetric = "ENEMY_LOSS_PERCENT"
	MetricRound            TriggerMetric = "ROUND"
	MetricDisorder         TriggerMetric = "DISORDER"
)

// Comparison - оператор сравнения в триггере.
type Comparison string

const (
	CompareAtLeast Comparison = ">="
	CompareAtMost  Comparison = "<="
)

// MidBattleOrderKind - что именно меняет приказ посреди боя.
type MidBattleOrderKind uint8

const (
	OrderChangeFormation MidBattleOrderKind = iota
	OrderChangeTargeting
	OrderFocusFire
	OrderWithdraw
)

func (k MidBattleOrderKind) String() string {
	switch k {
	case OrderChangeTargeting:
		return "CHANGE_TARGETING"
	case OrderFocusFire:
		return "FOCUS_FIRE"
	case OrderWithdraw:
		return "WITHDRAW"
	default:
		return "CHANGE_FORMATION"
	}
}

// MidBattleOrder - приказ, отдаваемый между раундами боя (вручную командиром
// или автоматически условным приказом из доктрины).
type MidBattleOrder struct {
	Kind      MidBattleOrderKind `json:"kind"`
	Formation Formation          `json:"formation,omitempty"`
	Targeting []TargetPriority   `json:"targeting,omitempty"`
}

// ConditionalOrder - натренированный приказ "если-то". Экипаж отрабатывал
// именно этот сценарий до боя, поэтому срабатывание НЕ стоит беспорядка.
type ConditionalOrder struct {
	Metric     TriggerMetric  `json:"metric"`
	Compare    Comparison     `json:"compare"`
	Threshold  int            `json:"threshold"`
	Order      MidBattleOrder `json:"order"`
	Repeatable bool           `json:"repeatable"` // false = fire-once
}

// BattleDoctrine - предзаявленный боевой профиль флота. Принадлежит ровно
// одному флоту; в каждом бою оценивается заново.
type BattleDoctrine struct {
	Engagement  EngagementPolicy   `json:"engagement"`
	Formation   Formation          `json:"formation"`
	Targeting   []TargetPriority   `json:"targeting"`
	Retreat     RetreatCondition   `json:"retreat"`
	Conditional []ConditionalOrder `json:"conditional,omitempty"`
}

// DefaultDoctrine - безопасный фолбэк: сбалансированно-агрессивный профиль.
// Используется, когда флот не заявил доктрину или заявил кривую
// (ConfigurationError по классификации ошибок - откат, а не падение боя).
func DefaultDoctrine() *BattleDoctrine {
	return &BattleDoctrine{
		Engagement: EngageAggressive,
		Formation:  FormationLine,
		Targeting:  []TargetPriority{TargetStrongest, TargetCapitals, TargetWeakest},
		Retreat:    RetreatCondition{Kind: RetreatNever},
	}
}

// Normalized возвращает доктрину, пригодную к бою. Кривая доктрина
// (пустой список целей, порог вне 0..100) заменяется дефолтной.
func (d *BattleDoctrine) Normalized() *BattleDoctrine {
	if d == nil {
		return DefaultDoctrine()
	}
	if len(d.Targeting) == 0 {
		return DefaultDoctrine()
	}
	if d.Retreat.Kind != RetreatNever && (d.Retreat.Threshold <= 0 || d.Retreat.Threshold > 100) {
		return DefaultDoctrine()
	}
	return d
}

// ParseFormation конвертирует строку из JSON в Formation.
func ParseFormation(s string) (Formation, bool) {
	switch strings.ToUpper(s) {
	case "LINE":
		return FormationLine, true
	case "WEDGE":
		return FormationWedge, true
	case "SPHERE":
		return FormationSphere, true
	case "SCREEN":
		return FormationScreen, true
	}
	return FormationLine, false
}

// ParseMidBattleOrderKind конвертирует строку из JSON в MidBattleOrderKind.
func ParseMidBattleOrderKind(s string) (MidBattleOrderKind, bool) {
	switch strings.ToUpper(s) {
	case "CHANGE_FORMATION":
		return OrderChangeFormation, true
	case "CHANGE_TARGETING":
		return OrderChangeTargeting, true
	case "FOCUS_FIRE":
		return OrderFocusFire, true
	case "WITHDRAW":
		return OrderWithdraw, true
	}
	return OrderChangeFormation, false
}

// ParseTargetPriority конвертирует строку из JSON в TargetPriority.
func ParseTargetPriority(s string) (TargetPriority, bool) {
	switch TargetPriority(strings.ToUpper(s)) {
	case TargetCapitals, TargetEscorts, TargetCarriers, TargetSupports, TargetWeakest, TargetStrongest:
		return TargetPriority(strings.ToUpper(s)), true
	}
	return "", false
}
