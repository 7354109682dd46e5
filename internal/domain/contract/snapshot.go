package contract

// Snapshot is the flat form of a contract used by repositories and queries
type Snapshot struct {
	ID               string
	BuyerID          string
	SellerID         string
	Resource         string
	Terms            Terms
	Status           Status
	ProposedTick     int
	ActivatedTick    int
	ClosedTick       int
	NextDeliveryTick int
	UnitsShipped     float64
	UnitsMissed      float64
	PenaltiesCharged float64
	Reason           string
}

// Snapshot flattens the contract
func (c *Contract) Snapshot() Snapshot {
	return Snapshot{
		ID:               c.id,
		BuyerID:          c.buyerID,
		SellerID:         c.sellerID,
		Resource:         c.resource,
		Terms:            c.terms,
		Status:           c.status,
		ProposedTick:     c.proposedTick,
		ActivatedTick:    c.activatedTick,
		ClosedTick:       c.closedTick,
		NextDeliveryTick: c.nextDeliveryTick,
		UnitsShipped:     c.unitsShipped,
		UnitsMissed:      c.unitsMissed,
		PenaltiesCharged: c.penaltiesCharged,
		Reason:           c.reason,
	}
}

// ReconstructContract reconstructs a contract from persistence.
// This bypasses validation and is used by the repository.
func ReconstructContract(s Snapshot) *Contract {
	return &Contract{
		id:               s.ID,
		buyerID:          s.BuyerID,
		sellerID:         s.SellerID,
		resource:         s.Resource,
		terms:            s.Terms,
		status:           s.Status,
		proposedTick:     s.ProposedTick,
		activatedTick:    s.ActivatedTick,
		closedTick:       s.ClosedTick,
		nextDeliveryTick: s.NextDeliveryTick,
		unitsShipped:     s.UnitsShipped,
		unitsMissed:      s.UnitsMissed,
		penaltiesCharged: s.PenaltiesCharged,
		reason:           s.Reason,
	}
}
