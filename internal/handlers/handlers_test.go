package handlers

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/state"
)

type fakeRunner struct {
	calls  [][]string
	failOn string
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.Contains(strings.Join(call, " "), f.failOn) {
		return []byte("simulated failure"), errors.New("exit status 1")
	}
	return nil, nil
}

func newState() *state.State {
	return state.LoadState("/nonexistent/state.json")
}

func TestRegisterHandlers(t *testing.T) {
	r := &fakeRunner{}
	st := newState()
	reg := &Registrar{Runner: r}

	reg.Sync(config.Handlers{
		Defaults: []config.Handler{
			{BundleID: "com.brave.Browser", Assignments: []string{"http", "https", "public.html"}},
		},
	}, st)

	want := [][]string{
		{"duti", "-s", "com.brave.Browser", "http", "all"},
		{"duti", "-s", "com.brave.Browser", "https", "all"},
		{"duti", "-s", "com.brave.Browser", "public.html", "all"},
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("duti calls = %v, want %v", r.calls, want)
	}
	if st.Handlers["https"] != "com.brave.Browser" {
		t.Errorf("state handler = %q, want com.brave.Browser", st.Handlers["https"])
	}
}

func TestRegisterSkipsRecordedHandler(t *testing.T) {
	r := &fakeRunner{}
	st := newState()
	st.Handlers["http"] = "com.brave.Browser"

	results := (&Registrar{Runner: r}).Sync(config.Handlers{
		Defaults: []config.Handler{{BundleID: "com.brave.Browser", Assignments: []string{"http"}}},
	}, st)

	if len(r.calls) != 0 {
		t.Errorf("duti invoked for recorded handler: %v", r.calls)
	}
	if results[0].Status != report.StatusSkipped {
		t.Errorf("status = %s, want skipped", results[0].Status)
	}
}

func TestRegisterReappliesChangedBundle(t *testing.T) {
	r := &fakeRunner{}
	st := newState()
	st.Handlers["http"] = "com.apple.Safari"

	(&Registrar{Runner: r}).Sync(config.Handlers{
		Defaults: []config.Handler{{BundleID: "com.brave.Browser", Assignments: []string{"http"}}},
	}, st)

	if len(r.calls) != 1 {
		t.Fatalf("expected one duti call, got %v", r.calls)
	}
	if st.Handlers["http"] != "com.brave.Browser" {
		t.Errorf("state not updated: %q", st.Handlers["http"])
	}
}

func TestHotkeyFragmentEncoding(t *testing.T) {
	got := hotkeyFragment(config.Hotkey{ID: 160, Enabled: true, Parameters: []int{65535, 130, 0}})
	want := "{ enabled = 1; value = { parameters = (65535, 130, 0); type = standard; }; }"
	if got != want {
		t.Errorf("hotkeyFragment() = %q, want %q", got, want)
	}

	got = hotkeyFragment(config.Hotkey{ID: 160, Enabled: false, Parameters: []int{65535, 130, 0}})
	if !strings.Contains(got, "enabled = 0") {
		t.Errorf("disabled hotkey fragment = %q", got)
	}
}

func TestHotkeyWrite(t *testing.T) {
	r := &fakeRunner{}
	st := newState()
	hk := config.Hotkey{ID: 160, Enabled: true, Parameters: []int{65535, 130, 0}}

	(&Registrar{Runner: r}).Sync(config.Handlers{Hotkeys: []config.Hotkey{hk}}, st)

	want := []string{
		"defaults", "write", "com.apple.symbolichotkeys", "AppleSymbolicHotKeys",
		"-dict-add", "160", "{ enabled = 1; value = { parameters = (65535, 130, 0); type = standard; }; }",
	}
	if len(r.calls) != 1 || !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("hotkey write = %v, want %v", r.calls, want)
	}

	// Second sync with unchanged config writes nothing.
	r2 := &fakeRunner{}
	results := (&Registrar{Runner: r2}).Sync(config.Handlers{Hotkeys: []config.Hotkey{hk}}, st)
	if len(r2.calls) != 0 {
		t.Errorf("unchanged hotkey rewritten: %v", r2.calls)
	}
	if results[0].Status != report.StatusSkipped {
		t.Errorf("status = %s, want skipped", results[0].Status)
	}
}

func TestHandlerFailureContinues(t *testing.T) {
	r := &fakeRunner{failOn: "http all"}
	st := newState()

	results := (&Registrar{Runner: r}).Sync(config.Handlers{
		Defaults: []config.Handler{{BundleID: "com.brave.Browser", Assignments: []string{"http", "public.html"}}},
	}, st)

	if results[0].Status != report.StatusFailed {
		t.Errorf("first status = %s, want failed", results[0].Status)
	}
	if results[1].Status != report.StatusApplied {
		t.Errorf("second status = %s, want applied", results[1].Status)
	}
}
