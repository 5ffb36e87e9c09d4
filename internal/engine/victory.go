package engine

import (
	"fmt"

	"voidreach-server/internal/domain"
)

// --- ФАЗА ПРОВЕРКИ ПОБЕДЫ ---

func (p *Pipeline) phaseVictory(ctx *turnContext) error {
	p.eliminateDeadFactions(ctx)

	winner, kind, ok := EvaluateVictory(ctx.s)
	if !ok {
		return nil
	}

	ctx.s.Winner = winner
	ctx.result.Winner = winner
	ctx.result.VictoryBy = kind
	ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
		Text: fmt.Sprintf("%s has won the game (%s)", ctx.s.Factions[winner].Name, kind),
		Kind: "EVENT",
	})

	if err := ctx.s.TransitionTo(domain.SessionFinished); err != nil {
		return err
	}
	return nil
}

// eliminateDeadFactions помечает фракции без колоний и флотов выбывшими.
func (p *Pipeline) eliminateDeadFactions(ctx *turnContext) {
	for _, faction := range sortedFactions(ctx.s) {
		if faction.Eliminated {
			continue
		}
		if p.hasAssets(ctx.s, faction.ID) {
			continue
		}
		faction.Eliminated = true
		ctx.result.Notifications = append(ctx.result.Notifications, domain.Notification{
			Text: fmt.Sprintf("%s has been eliminated", faction.Name),
			Kind: "EVENT",
		})
	}
}

func (p *Pipeline) hasAssets(s *domain.Session, factionID domain.FactionID) bool {
	for _, colony := range s.Colonies {
		if colony.OwnerID == factionID {
			return true
		}
	}
	for _, fleet := range s.Fleets {
		if fleet.OwnerID == factionID {
			return true
		}
	}
	return false
}

// EvaluateVictory проверяет условия победы в порядке их объявления в
// настройках сессии. Возвращается ПЕРВОЕ сработавшее условие; если на
// одном условии сошлись несколько фракций, побеждает фракция с меньшим id
// (детерминированный разрыв ничьей).
func EvaluateVictory(s *domain.Session) (domain.FactionID, domain.VictoryKind, bool) {
	for _, cond := range s.Settings.Victory {
		if winner, ok := checkCondition(s, cond); ok {
			return winner, cond.Kind, true
		}
	}
	return "", "", false
}

func checkCondition(s *domain.Session, cond domain.VictoryCondition) (domain.FactionID, bool) {
	switch cond.Kind {
	case domain.VictoryDomination:
		return bestBy(s, func(f *domain.Faction) (int, bool) {
			share := s.ControlledShare(f.ID)
			return share, share >= cond.Threshold
		})

	case domain.VictoryElimination:
		var last domain.FactionID
		alive := 0
		for _, f := range sortedFactions(s) {
			if !f.Eliminated {
				alive++
				last = f.ID
			}
		}
		if alive == 1 && len(s.Factions) > 1 {
			return last, true
		}
		return "", false

	case domain.VictoryEconomic:
		return bestBy(s, func(f *domain.Faction) (int, bool) {
			credits := f.Resource(domain.ResourceCredits)
			return credits, credits >= cond.Threshold
		})

	case domain.VictoryScientific:
		return bestBy(s, func(f *domain.Faction) (int, bool) {
			return len(f.Technologies), len(f.Technologies) >= cond.Threshold
		})

	case domain.VictoryDiplomatic:
		// Союз со всеми выжившими фракциями.
		for _, f := range sortedFactions(s) {
			if f.Eliminated {
				continue
			}
			allied := true
			for _, other := range sortedFactions(s) {
				if other.ID == f.ID || other.Eliminated {
					continue
				}
				if f.RelationTo(other.ID) != domain.RelationAlliance {
					allied = false
					break
				}
			}
			if allied && len(s.Factions) > 1 {
				return f.ID, true
			}
		}
		return "", false
	}
	return "", false
}

// bestBy возвращает фракцию с наибольшим значением метрики среди
// удовлетворивших порогу. Ничья рвется меньшим id.
func bestBy(s *domain.Session, metric func(*domain.Faction) (int, bool)) (domain.FactionID, bool) {
	var winner domain.FactionID
	best := -1
	for _, f := range sortedFactions(s) {
		if f.Eliminated {
			continue
		}
		value, ok := metric(f)
		if !ok {
			continue
		}
		if value > best {
			best = value
			winner = f.ID
		}
	}
	return winner, winner != ""
}
