package contract

import (
	"cmp"
	"slices"
)

// Proposal decline reasons
const (
	ReasonBelowCostFloor  = "price below seller cost floor"
	ReasonOutbid          = "a better proposal was accepted"
	ReasonDeclinedByOwner = "declined by seller"
)

// Evaluation is the outcome of evaluating one seller's mature proposals for a resource
type Evaluation struct {
	Accepted *Contract
	Declined []DeclinedProposal
}

// DeclinedProposal pairs a rejected proposal with its reason
type DeclinedProposal struct {
	Contract *Contract
	Reason   string
}

// ProposalEvaluationService decides which of a seller's mature proposals to accept.
// It separates the pricing rule from the Contract entity so decision policies
// can reuse it.
type ProposalEvaluationService struct{}

// NewProposalEvaluationService creates a new evaluation service
func NewProposalEvaluationService() *ProposalEvaluationService {
	return &ProposalEvaluationService{}
}

// Evaluate ranks proposals for the same seller and resource.
//
// Business Rules:
//   - proposals are ranked by price desc, then proposal tick asc, then id asc
//   - the first proposal priced at or above the cost floor is accepted
//   - every other proposal is declined, below-floor ones with their own reason
//
// The input slice is not modified.
func (s *ProposalEvaluationService) Evaluate(proposals []*Contract, costFloor float64) Evaluation {
	ranked := slices.Clone(proposals)
	slices.SortFunc(ranked, func(a, b *Contract) int {
		if c := cmp.Compare(b.terms.Price, a.terms.Price); c != 0 {
			return c
		}
		if c := cmp.Compare(a.proposedTick, b.proposedTick); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	var result Evaluation
	for _, p := range ranked {
		switch {
		case p.terms.Price < costFloor:
			result.Declined = append(result.Declined, DeclinedProposal{Contract: p, Reason: ReasonBelowCostFloor})
		case result.Accepted == nil:
			result.Accepted = p
		default:
			result.Declined = append(result.Declined, DeclinedProposal{Contract: p, Reason: ReasonOutbid})
		}
	}
	return result
}
