package queries

import (
	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
)

// RegisterHandlers wires the simulation queries into the mediator
func RegisterHandlers(m mediator.Mediator, runner *appSim.Runner) error {
	registrations := []func() error{
		func() error { return mediator.RegisterHandler[*GetRouteQuery](m, NewGetRouteHandler(runner)) },
		func() error { return mediator.RegisterHandler[*GetOrderBookQuery](m, NewGetOrderBookHandler(runner)) },
		func() error { return mediator.RegisterHandler[*ListSuppliersQuery](m, NewListSuppliersHandler(runner)) },
		func() error {
			return mediator.RegisterHandler[*GetEntityActivityQuery](m, NewGetEntityActivityHandler(runner))
		},
		func() error { return mediator.RegisterHandler[*GetDemandPhasesQuery](m, NewGetDemandPhasesHandler(runner)) },
		func() error { return mediator.RegisterHandler[*ListEntitiesQuery](m, NewListEntitiesHandler(runner)) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
