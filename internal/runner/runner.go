package runner

import (
	"os/exec"
)

// Runner executes an external command and returns its combined stdout/stderr.
// Every collaborator this tool talks to (defaults, git, ssh-keygen, dockutil,
// duti, sudo, killall) is invoked through this interface, so tests can swap in
// a fake and record the exact invocations without touching the machine.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// Exec is the production Runner backed by os/exec.
// It is the only place in the codebase that spawns processes.
type Exec struct{}

// Run executes the command and returns its combined output.
// The output is returned even on failure so callers can log what the
// underlying utility printed.
func (Exec) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}
