package provisioning

import (
	"fmt"
	"time"
)

// Phase is one step of the provisioning pipeline.
type Phase interface {
	// Name returns the step name used in events and the report.
	Name() string

	// FailureKind classifies an error returned by Provision.
	FailureKind() Kind

	// Provision executes the step, reading and extending ctx.State.
	Provision(ctx *Context) error
}

// RunPhases executes phases sequentially, recording a StepResult for each.
// The first failure halts the pipeline and is returned as a typed *Failure;
// cancellation is honored between phases, never mid-step.
func RunPhases(ctx *Context, phases []Phase, report *Report) error {
	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			failure := NewFailure(KindCancelled, phase.Name(), err)
			report.recordFailure(failure, 0)
			ctx.Observer.Event(Event{Type: EventStepFailed, Step: phase.Name(), Message: "cancelled before start"})
			return failure
		}

		start := time.Now()
		ctx.Observer.Event(Event{
			Type:    EventStepStarted,
			Step:    phase.Name(),
			Message: "starting",
			Fields:  map[string]string{"position": fmt.Sprintf("%d/%d", i+1, len(phases))},
		})

		if err := phase.Provision(ctx); err != nil {
			elapsed := time.Since(start)
			kind := phase.FailureKind()
			if ctx.Err() != nil {
				kind = KindCancelled
			}
			failure := NewFailure(kind, phase.Name(), err)
			report.recordFailure(failure, elapsed)
			ctx.Observer.Event(Event{Type: EventStepFailed, Step: phase.Name(), Message: err.Error()})
			return failure
		}

		elapsed := time.Since(start)
		report.recordSuccess(phase.Name(), "", elapsed)
		ctx.Observer.Event(Event{
			Type:    EventStepCompleted,
			Step:    phase.Name(),
			Message: "completed in " + elapsed.Round(time.Millisecond).String(),
		})
	}

	return nil
}
