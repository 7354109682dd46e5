package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	appSim "github.com/andrescamacho/supplychain-go/internal/application/simulation"
	"github.com/andrescamacho/supplychain-go/internal/domain/simulation"
)

// StepTickCommand advances the run by one or more ticks
type StepTickCommand struct {
	Ticks int
}

// StepTickResponse carries the reports of the stepped ticks
type StepTickResponse struct {
	Tick    int
	Reports []*simulation.Report
}

// StepTickHandler handles StepTickCommand
type StepTickHandler struct {
	runner *appSim.Runner
}

// NewStepTickHandler creates a new StepTickHandler
func NewStepTickHandler(runner *appSim.Runner) *StepTickHandler {
	return &StepTickHandler{runner: runner}
}

// Handle steps the requested number of ticks, at least one
func (h *StepTickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StepTickCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StepTickCommand")
	}

	ticks := cmd.Ticks
	if ticks < 1 {
		ticks = 1
	}

	resp := &StepTickResponse{Reports: make([]*simulation.Report, 0, ticks)}
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		report, err := h.runner.Step(ctx)
		if report != nil {
			resp.Reports = append(resp.Reports, report)
			resp.Tick = report.Tick
		}
		if err != nil {
			return resp, err
		}
	}
	return resp, nil
}
