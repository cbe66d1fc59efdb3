package prefs

import (
	"fmt"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/runner"
	"mac-bootstrap/internal/state"
)

// Store applies preference settings to the macOS preference database.
// Every write in the whole tool funnels through Apply so the `defaults`
// invocation lives in exactly one place and tests can substitute the Runner.
type Store struct {
	Runner runner.Runner
}

// NewStore returns a Store writing through the given runner.
func NewStore(r runner.Runner) *Store {
	return &Store{Runner: r}
}

// Apply writes a single (domain, key, type, value) setting with `defaults write`.
// Reapplying the same setting yields the same stored value (last-write-wins).
func (s *Store) Apply(set config.Setting) error {
	// Build the arguments for the `defaults write` command based on setting type
	args := []string{"write", set.Domain, set.Key}
	switch set.Type {
	case config.BoolType:
		args = append(args, "-bool", set.Value)
	case config.IntType:
		args = append(args, "-int", set.Value)
	case config.FloatType:
		args = append(args, "-float", set.Value)
	default:
		// Default to string type if none of the above
		args = append(args, "-string", set.Value)
	}

	output, err := s.Runner.Run("defaults", args...)
	if err != nil {
		return fmt.Errorf("defaults write %s %s failed: %w (output: %s)", set.Domain, set.Key, err, output)
	}
	return nil
}

// Sync applies the configured settings and updates the state file with applied
// settings to avoid redundant writes. Each setting produces its own result;
// a failed write never blocks the remaining settings.
func (s *Store) Sync(settings []config.Setting, st *state.State) []report.Result {
	var results []report.Result

	// Iterate over each desired setting from config
	for _, set := range settings {
		// Compose a unique key to identify each setting (domain:key)
		key := fmt.Sprintf("%s:%s", set.Domain, set.Key)
		step := "setting:" + key

		logger.Debug("[DEBUG] Considering setting %s = %s (%s)\n", key, set.Value, set.Type)

		// Check if this setting is already applied with the same value in the state file
		if prev, ok := st.Settings[key]; ok && prev.Value == set.Value {
			logger.Info("[INFO] Skipping already applied setting %s = %s\n", key, set.Value)
			results = append(results, report.Skipped(step, "already applied"))
			continue
		}

		if err := s.Apply(set); err != nil {
			logger.Error("[ERROR] Failed to apply setting %s: %v\n", key, err)
			results = append(results, report.Failed(step, err.Error()))
			continue
		}

		logger.Info("[INFO] Applied setting: %s = %s\n", key, set.Value)
		results = append(results, report.Applied(step, set.Value))

		// Update the state file with this newly applied setting
		st.Settings[key] = state.SettingState{
			Domain: set.Domain,
			Key:    set.Key,
			Value:  set.Value,
		}
	}

	return results
}

// RestartServices restarts the configured UI processes with killall so that
// preference changes take visible effect. There is no verification that a
// restart succeeded; a process that was not running is reported as skipped.
func (s *Store) RestartServices(procs []string) []report.Result {
	var results []report.Result

	for _, proc := range procs {
		step := "restart:" + proc

		output, err := s.Runner.Run("killall", proc)
		if err != nil {
			// killall exits non-zero when no matching process exists; that is
			// normal right after login or on a headless run.
			logger.Warn("[WARN] Could not restart %s: %v (output: %s)\n", proc, err, output)
			results = append(results, report.Skipped(step, "process not running"))
			continue
		}

		logger.Info("[INFO] Restarted %s\n", proc)
		results = append(results, report.Applied(step, ""))
	}

	return results
}
