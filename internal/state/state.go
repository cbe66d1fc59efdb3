package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"            // For file system operations like reading and writing files

	"mac-bootstrap/internal/logger"
)

// SettingState represents the saved state of a macOS system setting that was applied.
// It stores the domain and key for the `defaults` system, plus the string value last applied.
type SettingState struct {
	Domain string `json:"domain"` // The domain string, e.g., "com.apple.finder"
	Key    string `json:"key"`    // The key string within that domain, e.g., "AppleShowAllFiles"
	Value  string `json:"value"`  // The value last written to that key, stored as string
}

// FontState represents a font installed on the system.
type FontState struct {
	Name    string   `json:"name"`    // Font name (e.g., "JetBrainsMono")
	Version string   `json:"version"` // Version/tag that was installed
	Files   []string `json:"files"`   // List of installed font file paths
}

// State holds the entire saved state for the bootstrap tool.
//
//   - Settings: map from "domain:key" to the value last written.
//   - Handlers: map from scheme/UTI assignment to the bundle id registered for it.
//   - Hotkeys: map from symbolic-hotkey id to the plist fragment last written.
//   - Fonts: map from font name to its FontState.
//   - Dock: the item list from the last Dock rebuild. Informational only; the
//     Dock is always rebuilt from scratch and never short-circuits on state.
//   - SSHKeyPath: path of the keypair this tool generated, if any.
type State struct {
	Settings   map[string]SettingState `json:"settings"`
	Handlers   map[string]string       `json:"handlers"`
	Hotkeys    map[string]string       `json:"hotkeys"`
	Fonts      map[string]FontState    `json:"fonts"`
	Dock       []string                `json:"dock"`
	SSHKeyPath string                  `json:"ssh_key_path,omitempty"`
}

// LoadState loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State struct.
// It ensures all maps are non-nil to prevent nil pointer issues.
func LoadState(path string) *State {
	// Read entire state JSON file into memory
	file, err := os.ReadFile(path)
	if err != nil {
		// If file read fails (file missing, permission issues), return empty initialized state
		return newState()
	}

	// Parse JSON data into a State struct
	var st State
	_ = json.Unmarshal(file, &st)

	// Defensive: Ensure maps are initialized if JSON contained null for these fields
	if st.Settings == nil {
		st.Settings = make(map[string]SettingState)
	}
	if st.Handlers == nil {
		st.Handlers = make(map[string]string)
	}
	if st.Hotkeys == nil {
		st.Hotkeys = make(map[string]string)
	}
	if st.Fonts == nil {
		st.Fonts = make(map[string]FontState)
	}

	return &st
}

func newState() *State {
	return &State{
		Settings: make(map[string]SettingState),
		Handlers: make(map[string]string),
		Hotkeys:  make(map[string]string),
		Fonts:    make(map[string]FontState),
	}
}

// SaveState writes the given State struct to a JSON file at the given path.
// It pretty-prints the JSON with indentation for readability.
// Errors during marshalling or writing are logged but not propagated.
func SaveState(path string, st *State) {
	// Marshal the State struct into indented JSON bytes
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		// Log marshalling errors, typically should never happen unless invalid data
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	// Log debug info showing the full JSON state being written (can be verbose)
	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	// Write the JSON bytes to the file with mode 0644 (read/write owner, read others)
	err = os.WriteFile(path, file, 0644)
	if err != nil {
		// Log write errors, e.g., permission denied or disk full
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
