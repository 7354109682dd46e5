package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

func TestOrderHappyPath(t *testing.T) {
	o := New("O000001", "mill", "farm", "grain", 10, 3, 1)

	require.NoError(t, o.Accept(10, 1))
	assert.False(t, o.Partial)
	assert.False(t, o.ReadyToDepart(1), "never departs on the acceptance tick")
	assert.True(t, o.ReadyToDepart(2))
	require.NoError(t, o.Dispatch())
	require.NoError(t, o.Deliver(4))

	assert.True(t, o.IsTerminal())
	assert.Equal(t, 30.0, o.Value())
	assert.Equal(t, 4, o.ClosedTick)
	assert.NoError(t, Transitions.ValidSequence(o.History))
	assert.Equal(t, []Status{StatusPending, StatusAccepted, StatusInTransit, StatusDelivered}, o.History)
}

func TestOrderPartialFill(t *testing.T) {
	o := New("O000001", "mill", "farm", "grain", 10, 3, 1)

	require.NoError(t, o.Accept(4, 1))
	assert.True(t, o.Partial)
	assert.Equal(t, 12.0, o.Value())
}

func TestOrderDecline(t *testing.T) {
	o := New("O000001", "mill", "farm", "grain", 10, 3, 1)

	require.NoError(t, o.Decline(ReasonNoStock, 2))
	assert.Equal(t, StatusDeclined, o.Status)
	assert.Equal(t, 0.0, o.Fulfilled)
	assert.True(t, o.IsTerminal())
}

func TestOrderRejectsBackwardTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(o *Order)
		act   func(o *Order) error
	}{
		{"dispatch pending", func(o *Order) {}, func(o *Order) error { return o.Dispatch() }},
		{"deliver accepted", func(o *Order) { _ = o.Accept(1, 0) }, func(o *Order) error { return o.Deliver(2) }},
		{"decline accepted", func(o *Order) { _ = o.Accept(1, 0) }, func(o *Order) error { return o.Decline("x", 2) }},
		{"accept declined", func(o *Order) { _ = o.Decline("x", 1) }, func(o *Order) error { return o.Accept(1, 1) }},
		{"accept twice", func(o *Order) { _ = o.Accept(1, 0) }, func(o *Order) error { return o.Accept(1, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New("O1", "b", "s", "r", 1, 1, 0)
			tt.setup(o)
			before := o.Status

			err := tt.act(o)

			var transitionErr *shared.InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, "order", transitionErr.Kind)
			assert.Equal(t, before, o.Status)
		})
	}
}

func TestDeliveryCountdown(t *testing.T) {
	o := New("O1", "mill", "farm", "grain", 5, 2, 0)
	require.NoError(t, o.Accept(5, 0))
	route := []string{"A", "B"}
	d := NewDelivery(o, "A", "B", 2, route, 3)
	route[0] = "Z"

	assert.Equal(t, "A", d.Route[0])
	assert.False(t, d.Tick())
	assert.True(t, d.Tick())
	assert.Equal(t, 10.0, d.Value())
}
