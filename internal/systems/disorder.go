package systems

import "voidreach-server/internal/domain"

// OrderDisorderCost считает цену ручного приказа в бою.
//
// Формула: база +15, еще +25 если командира нет на месте (удаленная
// ретрансляция), +20 если с прошлого приказа не прошло и раунда,
// +5 за каждый уже сделанный приказ; выучка экипажа снимает до 20.
// Итог никогда не отрицательный.
func OrderDisorderCost(commanderPresent bool, roundsSinceLast int, priorChanges int, drill int) int {
	cost := domain.DisorderBase

	if !commanderPresent {
		cost += domain.DisorderNoCommander
	}
	if roundsSinceLast < 1 {
		cost += domain.DisorderRapidChange
	}
	cost += domain.DisorderPerPriorChange * priorChanges

	// Выучка 0..100 линейно конвертируется в скидку 0..20.
	reduction := drill * domain.DisorderDrillReductionCap / domain.DrillMax
	if reduction > domain.DisorderDrillReductionCap {
		reduction = domain.DisorderDrillReductionCap
	}
	cost -= reduction

	if cost < 0 {
		cost = 0
	}
	return cost
}

// AddDisorder прибавляет штраф с жестким потолком 100.
// Монотонно: штраф внутри одного боя никогда не убывает.
func AddDisorder(current, added int) int {
	next := current + added
	if next > domain.DisorderMax {
		return domain.DisorderMax
	}
	return next
}

// DisorderOutputFactor - линейная деградация боевого выхода:
// 0 беспорядка = полный выход, 100 = приказы игнорируются, но флот
// продолжает бой на последней валидной доктрине.
func DisorderOutputFactor(disorder int) float64 {
	if disorder <= 0 {
		return 1.0
	}
	if disorder >= domain.DisorderMax {
		// Деградация выхода капится: даже полностью дезорганизованный
		// флот стреляет, просто вполсилы и без управления.
		return 0.5
	}
	return 1.0 - float64(disorder)/float64(domain.DisorderMax)*0.5
}
