// Package production implements the continuous process-line state machine.
//
// State Machine:
//
//	STARTING -> RUNNING
//
// A starting line pays its fixed startup inputs once and counts down its
// startup ticks. A running line consumes volume scaled cycle inputs at the
// start of every cycle and tick inputs on every tick, and emits volume scaled
// outputs when a cycle completes. Missing inputs stall the line in place; that
// is starvation, not an error.
package production

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Phase represents the current phase of a process line
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhaseRunning  Phase = "running"
)

var phaseTransitions = shared.NewTransitionTable("process line", map[Phase][]Phase{
	PhaseStarting: {PhaseRunning},
})

// Outcome is what happened to a line during one tick
type Outcome string

const (
	OutcomeStartupStalled Outcome = "startup_stalled"
	OutcomeStartingUp     Outcome = "starting_up"
	OutcomeStarted        Outcome = "started"
	OutcomeStalled        Outcome = "stalled"
	OutcomeAdvanced       Outcome = "advanced"
	OutcomeCycleCompleted Outcome = "cycle_completed"
)

// Store is the inventory a line draws from and emits into.
// Covers must answer against stock not committed to orders.
type Store interface {
	Covers(items []shared.Amount, factor float64) bool
	Consume(items []shared.Amount, factor float64)
	Produce(items []shared.Amount, factor float64)
}

// Line is a running instance of a production process owned by one entity
type Line struct {
	ID                    string
	ProcessID             string
	EntityID              string
	Phase                 Phase
	StartupTicksRemaining int
	StartupPaid           bool
	Progress              int
	Volume                float64
}

// NewLine creates a line in its initial phase. A process with neither startup
// ticks nor startup inputs starts out running.
func NewLine(id, entityID string, def catalog.ProcessDefinition, volume float64) Line {
	l := Line{
		ID:                    id,
		ProcessID:             def.ID,
		EntityID:              entityID,
		Phase:                 PhaseStarting,
		StartupTicksRemaining: def.StartupTicks,
		Volume:                ClampVolume(def, volume),
	}
	if def.StartupTicks == 0 && len(def.StartupInputs) == 0 {
		l.Phase = PhaseRunning
		l.StartupPaid = true
	}
	return l
}

// ClampVolume bounds a requested volume to the process limits
func ClampVolume(def catalog.ProcessDefinition, volume float64) float64 {
	if volume < def.MinVolume {
		return def.MinVolume
	}
	if volume > def.MaxVolume {
		return def.MaxVolume
	}
	return volume
}

// VolumeInBounds reports whether an owner requested volume is acceptable as is
func VolumeInBounds(def catalog.ProcessDefinition, volume float64) bool {
	return volume >= def.MinVolume-shared.Epsilon && volume <= def.MaxVolume+shared.Epsilon
}

// Advance steps the line by one tick against the store
func Advance(l *Line, def catalog.ProcessDefinition, store Store) Outcome {
	if l.Phase == PhaseStarting {
		return advanceStartup(l, def, store)
	}
	return advanceRunning(l, def, store)
}

func advanceStartup(l *Line, def catalog.ProcessDefinition, store Store) Outcome {
	if !l.StartupPaid {
		if !store.Covers(def.StartupInputs, 1) {
			return OutcomeStartupStalled
		}
		store.Consume(def.StartupInputs, 1)
		l.StartupPaid = true
	}
	if l.StartupTicksRemaining > 0 {
		l.StartupTicksRemaining--
	}
	if l.StartupTicksRemaining > 0 {
		return OutcomeStartingUp
	}
	next, err := phaseTransitions.Transition(l.ID, l.Phase, PhaseRunning)
	if err != nil {
		return OutcomeStartupStalled
	}
	l.Phase = next
	l.Progress = 0
	return OutcomeStarted
}

func advanceRunning(l *Line, def catalog.ProcessDefinition, store Store) Outcome {
	v := l.Volume
	if l.Progress == 0 {
		// Cycle and tick inputs are checked together so a failure consumes nothing
		if !store.Covers(shared.MergeAmounts(def.CycleInputs, def.TickInputs), v) {
			return OutcomeStalled
		}
		store.Consume(def.CycleInputs, v)
	} else if !store.Covers(def.TickInputs, v) {
		return OutcomeStalled
	}
	store.Consume(def.TickInputs, v)

	l.Progress++
	if l.Progress >= def.CycleTicks {
		store.Produce(def.Outputs, v)
		l.Progress = 0
		return OutcomeCycleCompleted
	}
	return OutcomeAdvanced
}
