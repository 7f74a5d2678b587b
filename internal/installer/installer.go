// Package installer runs the configure flow for an installed
// tesseract-olap unit as a fixed, fail-fast sequence of steps.
package installer

import (
	"context"
	"errors"

	"github.com/tesseract-olap/tesseract-setup/internal/config"
	"github.com/tesseract-olap/tesseract-setup/internal/system"
	"github.com/tesseract-olap/tesseract-setup/internal/ui"
	"github.com/tesseract-olap/tesseract-setup/internal/unitfile"
)

// ErrDeclined ends the pipeline early without failing it.
var ErrDeclined = errors.New("declined by operator")

// AccountEnsurer creates the service account when it is missing.
type AccountEnsurer interface {
	Ensure(ctx context.Context, name string) (created bool, err error)
}

// Deps holds everything the steps touch outside their own state.
type Deps struct {
	Cfg      config.Config
	Accounts AccountEnsurer
	Unit     unitfile.Store
	Prompter Prompter
	Printer  ui.Printer
	// ServiceRunning reports whether the server process is up. Nil means
	// "not running".
	ServiceRunning func(name string) (bool, error)
}

// State accumulates what the steps did, for the final summary.
type State struct {
	AccountCreated bool
	Declined       bool
	Address        *unitfile.Result // nil when the default address was kept
	Schema         *unitfile.Result
	ServiceRunning bool
	NextSteps      []string
}

// Step is one stage of the pipeline.
type Step interface {
	Name() string
	Run(ctx context.Context, st *State) error
}

type stepFunc struct {
	name string
	fn   func(ctx context.Context, st *State) error
}

func (s stepFunc) Name() string                             { return s.name }
func (s stepFunc) Run(ctx context.Context, st *State) error { return s.fn(ctx, st) }

// NewStep adapts a function to a Step.
func NewStep(name string, fn func(ctx context.Context, st *State) error) Step {
	return stepFunc{name: name, fn: fn}
}

// Run executes steps in order and stops at the first error. ErrDeclined
// stops the run successfully and marks the state as declined.
func Run(ctx context.Context, steps []Step, st *State) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx, st); err != nil {
			if errors.Is(err, ErrDeclined) {
				st.Declined = true
				return nil
			}
			return err
		}
	}
	return nil
}

// Pipeline returns the standard configure sequence.
func Pipeline(d *Deps) []Step {
	return []Step{
		EnsureAccount(d),
		Confirm(d),
		Address(d),
		SchemaPath(d),
		Completion(d),
	}
}

// Summary is the machine-readable record of a run.
type Summary struct {
	Account        string            `json:"account" yaml:"account"`
	AccountCreated bool              `json:"account_created" yaml:"account_created"`
	Declined       bool              `json:"declined" yaml:"declined"`
	UnitPath       string            `json:"unit_path" yaml:"unit_path"`
	Substitutions  []unitfile.Result `json:"substitutions" yaml:"substitutions"`
	ServiceRunning bool              `json:"service_running" yaml:"service_running"`
	NextSteps      []string          `json:"next_steps,omitempty" yaml:"next_steps,omitempty"`
}

// Summary builds the run record from the state.
func (st *State) Summary(d *Deps) Summary {
	s := Summary{
		Account:        d.Cfg.ServiceUser,
		AccountCreated: st.AccountCreated,
		Declined:       st.Declined,
		UnitPath:       d.Unit.Path(),
		Substitutions:  []unitfile.Result{},
		ServiceRunning: st.ServiceRunning,
		NextSteps:      st.NextSteps,
	}
	if st.Address != nil {
		s.Substitutions = append(s.Substitutions, *st.Address)
	}
	if st.Schema != nil {
		s.Substitutions = append(s.Substitutions, *st.Schema)
	}
	return s
}

func (d *Deps) serviceRunning() bool {
	if d.ServiceRunning == nil {
		return false
	}
	running, err := d.ServiceRunning(d.Cfg.ServiceName)
	return err == nil && running
}

// guidance is split out so the completion step and the summary agree.
func (d *Deps) guidance(running bool) []string {
	return system.Guidance(d.Cfg.ServiceName, running)
}
