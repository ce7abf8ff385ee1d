package provisioning

import "time"

// Outcome is the result of one pipeline step.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// StepResult records one orchestrated step. Never mutated after creation.
type StepResult struct {
	Step     string
	Outcome  Outcome
	Detail   string
	Duration time.Duration
}

// Report aggregates the results of one provisioning run.
type Report struct {
	// RunID uniquely identifies the run in logs and events.
	RunID string

	// Steps lists every executed step in order.
	Steps []StepResult

	// LastCompleted names the last step that finished successfully,
	// telling an operator where a failed run can be resumed by hand.
	LastCompleted string

	// Failure is the typed failure that halted the run, nil on success.
	Failure *Failure

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// Succeeded reports whether the run completed without failure.
func (r *Report) Succeeded() bool {
	return r.Failure == nil
}

// Err returns the run's failure as an error, or nil on success.
func (r *Report) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func (r *Report) recordSuccess(step, detail string, d time.Duration) {
	r.Steps = append(r.Steps, StepResult{Step: step, Outcome: OutcomeSuccess, Detail: detail, Duration: d})
	r.LastCompleted = step
}

func (r *Report) recordFailure(failure *Failure, d time.Duration) {
	r.Steps = append(r.Steps, StepResult{Step: failure.Step, Outcome: OutcomeFailure, Detail: failure.Err.Error(), Duration: d})
	r.Failure = failure
}
