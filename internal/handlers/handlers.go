package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/runner"
	"mac-bootstrap/internal/state"
)

// Preference domain and key for macOS symbolic hotkeys. The numeric hotkey
// ids and their parameter tuples written under this key are assigned by the
// OS; this tool carries them verbatim from configuration and never interprets
// them. When the OS revs the hotkey table, the config must be updated with it.
const (
	symbolicHotkeysDomain = "com.apple.symbolichotkeys"
	symbolicHotkeysKey    = "AppleSymbolicHotKeys"
)

// Registrar registers default-application handlers with duti and injects
// symbolic-hotkey overrides with `defaults write ... -dict-add`.
type Registrar struct {
	Runner runner.Runner
}

// Sync registers every configured bundle id as the handler for its URL
// schemes / file types and applies the hotkey overrides. Registrations
// already recorded in state are skipped.
func (r *Registrar) Sync(cfg config.Handlers, st *state.State) []report.Result {
	var results []report.Result

	for _, h := range cfg.Defaults {
		for _, assignment := range h.Assignments {
			results = append(results, r.register(h.BundleID, assignment, st))
		}
	}

	for _, hk := range cfg.Hotkeys {
		results = append(results, r.applyHotkey(hk, st))
	}

	return results
}

// register makes one bundle the default handler for one scheme or UTI.
func (r *Registrar) register(bundleID, assignment string, st *state.State) report.Result {
	step := fmt.Sprintf("handler:%s", assignment)

	if prev, ok := st.Handlers[assignment]; ok && prev == bundleID {
		logger.Info("[INFO] Skipping already registered handler %s -> %s\n", assignment, bundleID)
		return report.Skipped(step, "already registered")
	}

	// duti -s <bundle_id> <scheme-or-UTI> all
	output, err := r.Runner.Run("duti", "-s", bundleID, assignment, "all")
	if err != nil {
		logger.Error("[ERROR] Failed to register %s for %s: %v\nOutput: %s\n", bundleID, assignment, err, output)
		return report.Failed(step, string(output))
	}

	logger.Info("[INFO] Registered %s as handler for %s\n", bundleID, assignment)
	st.Handlers[assignment] = bundleID
	return report.Applied(step, bundleID)
}

// applyHotkey writes one symbolic-hotkey override by numeric id.
func (r *Registrar) applyHotkey(hk config.Hotkey, st *state.State) report.Result {
	id := strconv.Itoa(hk.ID)
	step := "hotkey:" + id
	fragment := hotkeyFragment(hk)

	if prev, ok := st.Hotkeys[id]; ok && prev == fragment {
		logger.Info("[INFO] Skipping already applied hotkey override %s\n", id)
		return report.Skipped(step, "already applied")
	}

	output, err := r.Runner.Run("defaults", "write", symbolicHotkeysDomain, symbolicHotkeysKey,
		"-dict-add", id, fragment)
	if err != nil {
		logger.Error("[ERROR] Failed to apply hotkey override %s: %v\nOutput: %s\n", id, err, output)
		return report.Failed(step, string(output))
	}

	logger.Info("[INFO] Applied hotkey override %s\n", id)
	st.Hotkeys[id] = fragment
	return report.Applied(step, fragment)
}

// hotkeyFragment renders the old-style plist dictionary `defaults` expects
// for one AppleSymbolicHotKeys entry. The parameter tuple is emitted exactly
// as configured.
func hotkeyFragment(hk config.Hotkey) string {
	enabled := 0
	if hk.Enabled {
		enabled = 1
	}

	params := make([]string, len(hk.Parameters))
	for i, p := range hk.Parameters {
		params[i] = strconv.Itoa(p)
	}

	return fmt.Sprintf("{ enabled = %d; value = { parameters = (%s); type = standard; }; }",
		enabled, strings.Join(params, ", "))
}
