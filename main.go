package main

import (
	"mac-bootstrap/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// The mac-bootstrap project is a one-time, idempotent post-install configuration tool
// for a developer macOS workstation that:
//   - Reads a YAML configuration describing the Git identity, SSH key, macOS preference
//     defaults, default-application handlers, keyboard shortcut overrides, Dock contents,
//     and fonts to apply
//   - Applies macOS system settings using the `defaults` command-line tool
//   - Rebuilds the Dock from scratch with `dockutil` so the final Dock always matches
//     the configured item order
//   - Registers URL scheme and file type handlers with `duti`
//   - Generates an SSH keypair with `ssh-keygen` only when none exists yet
//   - Installs fonts by downloading release archives and copying font files into place
//   - Maintains a JSON state file to track which settings have been applied,
//     enabling idempotent and incremental runs (only applying changes when necessary)
//
// Error handling strategy:
//   - Every step produces an explicit result (applied, skipped, or failed) collected
//     into a run summary, so a failed preference write never halts the run but is
//     also never lost silently
//   - The process exits non-zero when the summary contains any failed step,
//     ensuring the user is notified of critical failures
//
// Integration points:
//   - All external utilities (defaults, git, ssh-keygen, dockutil, duti, sudo,
//     killall) are invoked through a single command runner so they remain opaque
//     collaborators with their own CLI contracts
//   - Tracks persistent state locally to avoid redundant writes in subsequent runs
func main() {
	cmd.Execute()
}
