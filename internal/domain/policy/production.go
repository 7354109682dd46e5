package policy

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// ThresholdProduction keeps source processes below the overstock threshold and
// starts input processes once their inputs are on hand
type ThresholdProduction struct{}

func NewThresholdProduction() *ThresholdProduction {
	return &ThresholdProduction{}
}

func (p *ThresholdProduction) Decide(e *entity.Entity, t catalog.EntityType, view View) []LineIntent {
	cfg := view.Config()
	running := make(map[string]int)
	lines := view.LinesFor(e.ID)
	for _, l := range lines {
		running[l.ProcessID]++
	}
	free := t.LineCapacity - len(lines)

	var intents []LineIntent
	for _, pid := range t.Production {
		def, ok := cfg.Process(pid)
		if !ok {
			continue
		}
		if def.IsSource() {
			stock := e.Inventory.Get(def.PrimaryOutput())
			switch {
			case running[pid] > 0 && stock > cfg.AI.OverstockThreshold:
				intents = append(intents, LineIntent{EntityID: e.ID, ProcessID: pid})
				free += running[pid]
			case running[pid] == 0 && free > 0 && stock < cfg.AI.OverstockThreshold:
				intents = append(intents, LineIntent{EntityID: e.ID, ProcessID: pid, Start: true, Volume: def.MinVolume})
				free--
			}
			continue
		}
		if running[pid] > 0 || free <= 0 {
			continue
		}
		if e.Covers(shared.MergeAmounts(def.CycleInputs, def.TickInputs), def.MinVolume) {
			intents = append(intents, LineIntent{EntityID: e.ID, ProcessID: pid, Start: true, Volume: def.MinVolume})
			free--
		}
	}
	return intents
}
