// Package account makes sure the service's system account exists.
package account

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"os/user"
	"strings"
)

// CommandRunner abstracts exec.Command calls for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands on the host and returns their combined output.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Manager checks for and creates local accounts.
type Manager struct {
	Runner CommandRunner
	// Lookup defaults to user.Lookup.
	Lookup func(name string) (*user.User, error)
}

// New returns a Manager that shells out to useradd via r.
func New(r CommandRunner) *Manager {
	return &Manager{Runner: r, Lookup: user.Lookup}
}

// Exists reports whether name resolves to a local account.
func (m *Manager) Exists(name string) (bool, error) {
	lookup := m.Lookup
	if lookup == nil {
		lookup = user.Lookup
	}
	_, err := lookup(name)
	if err == nil {
		return true, nil
	}
	var unknown user.UnknownUserError
	if errors.As(err, &unknown) {
		return false, nil
	}
	return false, err
}

// Ensure creates the account with useradd's default attributes when it is
// missing. created is false when the account was already there.
func (m *Manager) Ensure(ctx context.Context, name string) (created bool, err error) {
	ok, err := m.Exists(name)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	out, err := m.Runner.Run(ctx, "useradd", name)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return false, errors.New(msg)
		}
		return false, fmt.Errorf("useradd %s: %w", name, err)
	}
	return true, nil
}
