package sshkey

import (
	"os"
	"path/filepath"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/runner"
	"mac-bootstrap/internal/state"
)

// Provisioner generates an SSH keypair when none exists yet.
// File existence is the sole invariant: a pre-existing key is never
// regenerated, validated, or inspected in any way.
type Provisioner struct {
	Runner runner.Runner
}

// Ensure checks for a key at the configured path and generates an ed25519
// keypair (empty passphrase, Git email as comment) if it is absent.
// The public key is printed after generation so it can be pasted into
// GitHub/GitLab right away.
func (p *Provisioner) Ensure(id config.Identity, comment string, st *state.State) report.Result {
	keyPath := id.SSHKeyPath
	if keyPath == "" {
		keyPath = "~/.ssh/id_ed25519"
	}
	keyPath = config.ExpandHome(keyPath)
	step := "sshkey:" + keyPath

	if _, err := os.Stat(keyPath); err == nil {
		logger.Info("[INFO] SSH key already exists at %s. Skipping generation.\n", keyPath)
		return report.Skipped(step, "key exists")
	}

	// Make sure ~/.ssh exists with the permissions sshd expects.
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		logger.Error("[ERROR] Failed to create %s: %v\n", filepath.Dir(keyPath), err)
		return report.Failed(step, err.Error())
	}

	keyType := id.SSHKeyType
	if keyType == "" {
		keyType = "ed25519"
	}

	logger.Info("[INFO] Generating %s SSH key at %s...\n", keyType, keyPath)
	output, err := p.Runner.Run("ssh-keygen", "-t", keyType, "-C", comment, "-f", keyPath, "-N", "")
	if err != nil {
		logger.Error("[ERROR] ssh-keygen failed: %v\nOutput: %s\n", err, output)
		return report.Failed(step, string(output))
	}

	st.SSHKeyPath = keyPath

	// Print the public key so the user can register it immediately.
	if pub, err := os.ReadFile(keyPath + ".pub"); err == nil {
		logger.Info("[INFO] Public key:\n%s", pub)
	} else {
		logger.Warn("[WARN] Could not read public key %s.pub: %v\n", keyPath, err)
	}

	return report.Applied(step, keyType+" key generated")
}
