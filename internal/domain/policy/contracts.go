package policy

import (
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/contract"
	"github.com/andrescamacho/supplychain-go/internal/domain/entity"
)

// PriceContracts proposes contracts at a premium over base price and, as a
// seller, accepts the best proposal at or above its cost floor
type PriceContracts struct {
	evaluator *contract.ProposalEvaluationService
}

func NewPriceContracts() *PriceContracts {
	return &PriceContracts{evaluator: contract.NewProposalEvaluationService()}
}

func (p *PriceContracts) Propose(e *entity.Entity, t catalog.EntityType, view View) []ProposalIntent {
	cfg := view.Config()
	if cfg.AI.ContractUnits <= 0 {
		return nil
	}
	var intents []ProposalIntent
	for _, r := range cfg.ProcuredResources(t) {
		if view.OpenContractFor(e.ID, r) {
			continue
		}
		seller := SelectSupplier(e, r, view)
		if seller == "" {
			continue
		}
		intents = append(intents, ProposalIntent{
			BuyerID:  e.ID,
			SellerID: seller,
			Resource: r,
			Terms: contract.Terms{
				Price:                 cfg.BasePrice(r) * (1 + cfg.AI.ContractPremium),
				UnitsPerDelivery:      cfg.AI.ContractUnits,
				DeliveryInterval:      cfg.Contracts.DeliveryInterval,
				TotalUnits:            cfg.AI.ContractUnits * float64(cfg.Contracts.Deliveries),
				PenaltyRate:           cfg.Contracts.PenaltyRate,
				CancellationThreshold: cfg.Contracts.CancellationThreshold,
			},
		})
	}
	return intents
}

func (p *PriceContracts) Evaluate(e *entity.Entity, _ catalog.EntityType, view View) []EvaluationDecision {
	cfg := view.Config()
	byResource := make(map[string][]*contract.Contract)
	for _, c := range view.ProposalsFor(e.ID) {
		if c.IsMature(view.Tick(), cfg.Contracts.WaitTicks) {
			byResource[c.Resource()] = append(byResource[c.Resource()], c)
		}
	}

	resources := make([]string, 0, len(byResource))
	for r := range byResource {
		resources = append(resources, r)
	}
	slices.Sort(resources)

	var decisions []EvaluationDecision
	for _, r := range resources {
		result := p.evaluator.Evaluate(byResource[r], cfg.CostFloor(e.TypeID, r))
		if result.Accepted != nil {
			decisions = append(decisions, EvaluationDecision{ContractID: result.Accepted.ID(), Accept: true})
		}
		for _, d := range result.Declined {
			decisions = append(decisions, EvaluationDecision{ContractID: d.Contract.ID(), Reason: d.Reason})
		}
	}
	return decisions
}
