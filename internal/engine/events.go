package engine

import (
	"voidreach-server/internal/domain"
	"voidreach-server/internal/systems"
)

// --- ФАЗА СОБЫТИЙ ---
//
// Дипломатия, разведка и внутренняя политика исполняются здесь, после
// экономики: объявленная в этом ходе война влияет на бои только со
// СЛЕДУЮЩЕГО хода. Затем ходят малые фракции, затем обновляется
// разведпамять всех игроков.

func (p *Pipeline) phaseEvents(ctx *turnContext) error {
	p.runBucket(ctx, domain.BucketDiplomacy)
	p.runBucket(ctx, domain.BucketIntelligence)
	p.runBucket(ctx, domain.BucketGovernance)

	for _, op := range p.minor.PlanOperations(ctx.s, ctx.rng) {
		p.applyMinorOperation(ctx, op)
	}

	for _, faction := range sortedFactions(ctx.s) {
		if faction.Eliminated {
			continue
		}
		view := systems.ComputeView(ctx.s, faction.ID)
		systems.RecordSightings(ctx.s, faction.ID, view)
	}
	return nil
}
