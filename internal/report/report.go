package report

import (
	"mac-bootstrap/internal/logger"
)

// Status classifies the outcome of a single bootstrap step.
type Status string

const (
	// StatusApplied means the step changed something on the machine.
	StatusApplied Status = "applied"
	// StatusSkipped means the desired state was already in place (or the
	// step could not run in this environment, e.g. a missing app path).
	StatusSkipped Status = "skipped"
	// StatusFailed means the step ran and the underlying utility reported
	// an error. Failures never halt the run; they are collected here.
	StatusFailed Status = "failed"
)

// Result records the outcome of one step.
// Step is a stable identifier like "setting:com.apple.finder:ShowPathbar"
// or "dock:/Applications/Warp.app"; Detail is free-form context.
type Result struct {
	Step   string
	Status Status
	Detail string
}

// Applied builds a Result with StatusApplied.
func Applied(step, detail string) Result {
	return Result{Step: step, Status: StatusApplied, Detail: detail}
}

// Skipped builds a Result with StatusSkipped.
func Skipped(step, detail string) Result {
	return Result{Step: step, Status: StatusSkipped, Detail: detail}
}

// Failed builds a Result with StatusFailed.
func Failed(step, detail string) Result {
	return Result{Step: step, Status: StatusFailed, Detail: detail}
}

// Summary aggregates step results across a run.
// The zero value is ready to use.
type Summary struct {
	Results []Result
}

// Add appends results to the summary.
func (s *Summary) Add(results ...Result) {
	s.Results = append(s.Results, results...)
}

// Count returns how many results carry the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the failed results in the order they occurred.
func (s *Summary) Failures() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// HasFailures reports whether any step failed.
func (s *Summary) HasFailures() bool {
	return s.Count(StatusFailed) > 0
}

// Print writes the run summary through the colored logger:
// one totals line, then one line per failed step so nothing is lost silently.
func (s *Summary) Print() {
	logger.Info("[INFO] Run summary: %d applied, %d skipped, %d failed (%d steps)\n",
		s.Count(StatusApplied), s.Count(StatusSkipped), s.Count(StatusFailed), len(s.Results))

	for _, r := range s.Failures() {
		logger.Error("[ERROR] Failed step %s: %s\n", r.Step, r.Detail)
	}
}
