package simulation

import "fmt"

// ActionKind names an external action
type ActionKind string

const (
	ActionStartLine       ActionKind = "start_line"
	ActionStopLine        ActionKind = "stop_line"
	ActionSetVolume       ActionKind = "set_volume"
	ActionPlaceOrder      ActionKind = "place_order"
	ActionProposeContract ActionKind = "propose_contract"
	ActionAcceptContract  ActionKind = "accept_contract"
	ActionDeclineContract ActionKind = "decline_contract"
)

// ParseActionKind validates a user supplied action kind
func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(s)
	switch k {
	case ActionStartLine, ActionStopLine, ActionSetVolume, ActionPlaceOrder,
		ActionProposeContract, ActionAcceptContract, ActionDeclineContract:
		return k, nil
	}
	return "", fmt.Errorf("unknown action kind: %s", s)
}

// Action is an external request applied during the next tick.
//
// Target depends on Kind: a process id for start_line, a line id for
// stop_line and set_volume, a resource id for place_order and
// propose_contract, a contract id for accept_contract and decline_contract.
// Quantity is the volume, the ordered quantity or the units per delivery.
// Price and Counterparty are optional; zero values mean base price and best
// available supplier.
type Action struct {
	Party        string
	EntityID     string
	Kind         ActionKind
	Target       string
	Quantity     float64
	Price        float64
	Counterparty string
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s on %s by %s (qty=%g)", a.Kind, a.Target, a.EntityID, a.Party, a.Quantity)
}

// Rejection records an action that was dropped as a no-op
type Rejection struct {
	Action Action
	Reason string
}

// Rejection reasons
const (
	RejectUnknownEntity    = "unknown entity"
	RejectNotController    = "party does not control entity"
	RejectUnknownTarget    = "unknown target"
	RejectNotEligible      = "entity type not eligible"
	RejectCapacity         = "line capacity exhausted"
	RejectOutOfBounds      = "quantity out of bounds"
	RejectNoSupplier       = "no eligible supplier"
	RejectDuplicate        = "open contract already exists"
	RejectNotSeller        = "entity is not the seller"
	RejectNotProposed      = "contract is not a proposal"
	RejectProposalTooYoung = "proposal has not waited long enough"
	RejectBelowCostFloor   = "price below seller cost floor"
	RejectAlreadyAccepted  = "a contract for this resource was already accepted this tick"
)
