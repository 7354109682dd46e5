package commands

import (
	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
)

// RegisterHandlers wires the simulation commands into the mediator
func RegisterHandlers(m mediator.Mediator, runner *appSim.Runner) error {
	if err := mediator.RegisterHandler[*StepTickCommand](m, NewStepTickHandler(runner)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*SubmitActionCommand](m, NewSubmitActionHandler(runner))
}
