package installer

import "bootstrap-machine/internal/logger"

// OutcomeKind classifies what happened to one tool during a run.
type OutcomeKind string

const (
	// OutcomeAlreadyPresent means the idempotency probe found the tool on PATH.
	OutcomeAlreadyPresent OutcomeKind = "already-present"

	// OutcomeInstalled means one of the strategies succeeded; Via records which.
	OutcomeInstalled OutcomeKind = "installed"

	// OutcomeSkipped means no strategy was applicable on this platform.
	// Skipping is not an error: a package-only tool on an unrecognized host is
	// simply unsupported there.
	OutcomeSkipped OutcomeKind = "skipped"

	// OutcomeFailed means every applicable strategy was attempted and failed.
	// Failure of an optional tool never aborts the run.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the per-tool result recorded into the run report. Outcomes are
// derived fresh from host state each run; nothing is persisted.
type Outcome struct {
	Tool   string
	Kind   OutcomeKind
	Via    StrategyKind // set when Kind is OutcomeInstalled
	Reason string       // set when Kind is OutcomeSkipped or OutcomeFailed
}

// Report aggregates the outcomes of one full install pass, in tool order.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Failed returns the outcomes whose every strategy was exhausted.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Kind == OutcomeFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Log prints a human-readable summary of the run, one line per tool.
func (r *Report) Log() {
	for _, o := range r.Outcomes {
		switch o.Kind {
		case OutcomeAlreadyPresent:
			logger.Info("[INFO] %s: already installed\n", o.Tool)
		case OutcomeInstalled:
			logger.Info("[INFO] %s: installed via %s\n", o.Tool, o.Via)
		case OutcomeSkipped:
			logger.Warn("[WARN] %s: skipped (%s)\n", o.Tool, o.Reason)
		case OutcomeFailed:
			logger.Error("[ERROR] %s: failed (%s)\n", o.Tool, o.Reason)
		}
	}
}
