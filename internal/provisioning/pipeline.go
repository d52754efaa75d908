package provisioning

import (
	"fmt"
	"time"
)

// Phase is one step of the provisioning workflow.
type Phase interface {
	// Name identifies the phase in logs and error messages.
	Name() string

	// Provision performs the phase's work, reading earlier results from
	// and writing its own results to ctx.State.
	Provision(ctx *Context) error
}

// RunPhases executes all provisioning phases sequentially. The first failing
// phase aborts the remaining sequence; there is no rollback.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Observer.Event(Event{Type: EventPhaseStarted, Phase: phase.Name()})

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Event(Event{Type: EventPhaseFailed, Phase: phase.Name(), Message: err.Error()})
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(phaseStart).Round(time.Millisecond))
		ctx.Observer.Event(Event{Type: EventPhaseCompleted, Phase: phase.Name()})
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
