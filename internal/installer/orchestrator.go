package installer

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"bootstrap-machine/internal/execx"
	"bootstrap-machine/internal/logger"
	"bootstrap-machine/internal/pkgmgr"
	"bootstrap-machine/internal/platform"
)

// ErrBootstrapFailed marks the one fatal install failure: the configuration
// tool itself could not be acquired. Every other tool failure is recoverable.
var ErrBootstrapFailed = errors.New("configuration tool bootstrap failed")

// Orchestrator drives the idempotent install loop over a tool plan. It holds
// the run-scoped flags ("is the manager usable", "was the index refreshed")
// as plain fields rather than process globals, so a run is fully described by
// one value and tests can exercise every path.
//
// All state is per-run; nothing survives process exit. Idempotency comes from
// probing the host, never from install history.
type Orchestrator struct {
	platform platform.Platform
	manager  pkgmgr.Manager // nil when the platform has no recognized ecosystem
	runner   execx.Runner

	managerReady   bool
	indexRefreshed bool
}

// New builds an orchestrator for one run. manager may be nil.
func New(p platform.Platform, manager pkgmgr.Manager, r execx.Runner) *Orchestrator {
	return &Orchestrator{platform: p, manager: manager, runner: r}
}

// EnsureManager readies the package ecosystem once, before any per-tool
// installs. A bootstrap failure is logged and the run continues with the
// ecosystem treated as unavailable, so every tool falls back to its
// non-ecosystem strategies.
func (o *Orchestrator) EnsureManager() {
	if o.manager == nil {
		logger.Debug("[DEBUG] No package ecosystem for platform %s\n", o.platform.Family)
		return
	}
	if err := o.manager.EnsurePresent(); err != nil {
		logger.Warn("[WARN] Package manager %s unavailable: %v. Falling back to scripts and source builds.\n",
			o.manager.Name(), err)
		return
	}
	o.managerReady = true
}

// Install runs the per-tool state machine over every tool, in declared order.
// Order is deterministic and meaningful: a tool whose install depends on an
// earlier one (sheldon's cargo fallback needs rustup) relies on it. The run as
// a whole succeeds even when individual tools end up failed.
func (o *Orchestrator) Install(tools []Tool) *Report {
	report := &Report{}
	for _, tool := range tools {
		outcome := o.installOne(tool)
		report.add(outcome)
	}
	return report
}

// Bootstrap installs the configuration-application tool itself. Unlike every
// other tool, a terminal failure (or a skip, which on a bare platform means
// the same thing) is fatal and returned marked with ErrBootstrapFailed.
func (o *Orchestrator) Bootstrap(tool Tool) error {
	outcome := o.installOne(tool)
	switch outcome.Kind {
	case OutcomeAlreadyPresent, OutcomeInstalled:
		return nil
	default:
		return errors.Mark(
			errors.Newf("cannot acquire %s: %s", tool.Name, outcome.Reason),
			ErrBootstrapFailed)
	}
}

// installOne is the per-tool state machine:
//
//	probe -> already-present (terminal)
//	      -> try strategies[0..n) in order; first success is terminal
//	      -> all applicable strategies failed -> failed (terminal, non-fatal)
//	      -> no strategy applicable -> skipped (terminal)
//
// A failed tool is never retried within the run; re-running the program is
// the retry mechanism.
func (o *Orchestrator) installOne(tool Tool) Outcome {
	probe := tool.ProbeCommand()
	if execx.Available(o.runner, probe) {
		logger.Debug("[DEBUG] %s already present (probe %s)\n", tool.Name, probe)
		return Outcome{Tool: tool.Name, Kind: OutcomeAlreadyPresent}
	}

	var lastErr error
	attempted := false
	for _, strategy := range tool.Strategies {
		if reason := o.inapplicable(strategy); reason != "" {
			logger.Debug("[DEBUG] %s: strategy %s not applicable: %s\n", tool.Name, strategy.Kind, reason)
			continue
		}
		attempted = true

		logger.Info("[INFO] Installing %s via %s...\n", tool.Name, strategy.Kind)
		if err := o.attempt(strategy); err != nil {
			logger.Warn("[WARN] %s: %s strategy failed: %v\n", tool.Name, strategy.Kind, err)
			lastErr = err
			continue
		}
		return Outcome{Tool: tool.Name, Kind: OutcomeInstalled, Via: strategy.Kind}
	}

	if !attempted {
		return Outcome{
			Tool:   tool.Name,
			Kind:   OutcomeSkipped,
			Reason: fmt.Sprintf("no applicable install strategy on platform %s", o.platform.Family),
		}
	}
	return Outcome{Tool: tool.Name, Kind: OutcomeFailed, Reason: lastErr.Error()}
}

// inapplicable returns a non-empty reason when the strategy cannot run on
// this platform in this run. Script strategies are always applicable.
func (o *Orchestrator) inapplicable(s Strategy) string {
	switch s.Kind {
	case StrategyPackage:
		if o.manager == nil || !o.managerReady {
			return "no usable package ecosystem"
		}
		if s.Ecosystem != o.manager.Ecosystem() {
			return fmt.Sprintf("ecosystem %s not available (have %s)", s.Ecosystem, o.manager.Ecosystem())
		}
	case StrategySource:
		if !execx.Available(o.runner, s.Toolchain) {
			return fmt.Sprintf("toolchain %s not on PATH", s.Toolchain)
		}
	}
	return ""
}

// attempt executes one strategy to completion.
func (o *Orchestrator) attempt(s Strategy) error {
	switch s.Kind {
	case StrategyPackage:
		// The index is refreshed at most once per run, before the first
		// ecosystem install. The flag flips even when the refresh fails;
		// retrying it per package would not make a broken mirror work.
		if !o.indexRefreshed {
			o.indexRefreshed = true
			if err := o.manager.RefreshIndex(); err != nil {
				logger.Warn("[WARN] Package index refresh failed: %v\n", err)
			}
		}
		return o.manager.Install(s.Package)

	case StrategyScript:
		return o.runScript(s)

	case StrategySource:
		output, err := o.runner.Run(s.Toolchain, "install", s.BuildSpec)
		if err != nil {
			return errors.Wrapf(err, "%s install %s failed: %s", s.Toolchain, s.BuildSpec, output)
		}
		return nil

	default:
		return errors.Newf("unknown strategy kind %q", s.Kind)
	}
}

// runScript fetches a remote installer script and pipes it into sh, passing
// any declared arguments after `-s --`. A non-zero exit from the fetched
// script is captured like any other strategy failure, never propagated as a
// process-ending error.
func (o *Orchestrator) runScript(s Strategy) error {
	pipeline := fmt.Sprintf("curl -fsSL %s | sh", s.ScriptURL)
	if len(s.ScriptArgs) > 0 {
		pipeline = fmt.Sprintf("curl -fsSL %s | sh -s -- %s", s.ScriptURL, strings.Join(s.ScriptArgs, " "))
	}
	output, err := o.runner.Run("sh", "-c", pipeline)
	if err != nil {
		return errors.Wrapf(err, "installer script %s failed: %s", s.ScriptURL, output)
	}
	return nil
}
