package sshkey

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/state"
)

type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil, f.err
}

func newState() *state.State {
	return state.LoadState("/nonexistent/state.json")
}

func TestExistingKeyNeverRegenerated(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	original := []byte("existing private key material")
	if err := os.WriteFile(keyPath, original, 0600); err != nil {
		t.Fatal(err)
	}

	r := &fakeRunner{}
	p := &Provisioner{Runner: r}
	res := p.Ensure(config.Identity{SSHKeyPath: keyPath}, "jane@example.com", newState())

	if res.Status != report.StatusSkipped {
		t.Errorf("status = %s, want skipped", res.Status)
	}
	if len(r.calls) != 0 {
		t.Errorf("ssh-keygen invoked for an existing key: %v", r.calls)
	}

	// The key must be byte-identical after the run.
	after, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(original) {
		t.Error("existing key was modified")
	}
}

func TestAbsentKeyGenerated(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), ".ssh", "id_ed25519")

	r := &fakeRunner{}
	p := &Provisioner{Runner: r}
	st := newState()
	res := p.Ensure(config.Identity{SSHKeyPath: keyPath}, "jane@example.com", st)

	if res.Status != report.StatusApplied {
		t.Fatalf("status = %s, want applied", res.Status)
	}
	want := []string{"ssh-keygen", "-t", "ed25519", "-C", "jane@example.com", "-f", keyPath, "-N", ""}
	if len(r.calls) != 1 || !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("ssh-keygen call = %v, want %v", r.calls, want)
	}
	if st.SSHKeyPath != keyPath {
		t.Errorf("state ssh key path = %q, want %q", st.SSHKeyPath, keyPath)
	}

	// ~/.ssh equivalent must have been created for ssh-keygen to write into.
	if _, err := os.Stat(filepath.Dir(keyPath)); err != nil {
		t.Errorf("key directory not created: %v", err)
	}
}

func TestKeygenFailure(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_ed25519")

	r := &fakeRunner{err: errors.New("exit status 1")}
	p := &Provisioner{Runner: r}
	res := p.Ensure(config.Identity{SSHKeyPath: keyPath}, "jane@example.com", newState())

	if res.Status != report.StatusFailed {
		t.Errorf("status = %s, want failed", res.Status)
	}
}

func TestKeyTypeOverride(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")

	r := &fakeRunner{}
	p := &Provisioner{Runner: r}
	p.Ensure(config.Identity{SSHKeyPath: keyPath, SSHKeyType: "rsa"}, "jane@example.com", newState())

	if len(r.calls) != 1 || r.calls[0][2] != "rsa" {
		t.Errorf("key type not honored: %v", r.calls)
	}
}
