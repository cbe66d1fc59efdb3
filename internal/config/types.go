package config

// Identity holds the Git and SSH identity configuration.
//   - DefaultBranch: set unconditionally as init.defaultBranch.
//   - UserName/UserEmail: desired global Git identity; when empty the value is
//     prompted for interactively (and left alone if Git already has one).
//   - SSHKeyPath: where the keypair lives, e.g. ~/.ssh/id_ed25519.
//   - SSHKeyType: key algorithm passed to ssh-keygen (default ed25519).
type Identity struct {
	DefaultBranch string `yaml:"default_branch"`
	UserName      string `yaml:"user_name"`
	UserEmail     string `yaml:"user_email"`
	SSHKeyPath    string `yaml:"ssh_key_path"`
	SSHKeyType    string `yaml:"ssh_key_type"`
}

// Setting represents a macOS `defaults` system setting.
// - Domain: macOS domain (e.g., com.apple.finder).
// - Key: Specific setting key.
// - Value: Desired setting value as a string.
// - Type: Value type ("bool", "int", "string", "float").
type Setting struct {
	Domain string `yaml:"domain"`
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
	Type   string `yaml:"type"`
}

// Constants for the supported setting value types.
// These should be used when authoring settings.yaml to ensure consistency.
const (
	BoolType   = "bool"
	IntType    = "int"
	FloatType  = "float"
	StringType = "string"
)

// Handler maps one application bundle to the URL schemes and file types
// (UTIs) it should open by default.
type Handler struct {
	BundleID    string   `yaml:"bundle_id"`
	Assignments []string `yaml:"assignments"`
}

// Hotkey is a symbolic-hotkey override by numeric id.
// The id and parameter tuple are opaque, OS-assigned values carried verbatim
// from the machine this configuration was captured on; this tool never
// interprets them and they must be updated in lockstep with the OS.
type Hotkey struct {
	ID         int   `yaml:"id"`
	Enabled    bool  `yaml:"enabled"`
	Parameters []int `yaml:"parameters"`
}

// Handlers groups the default-application and hotkey configuration.
type Handlers struct {
	Defaults []Handler `yaml:"defaults"`
	Hotkeys  []Hotkey  `yaml:"hotkeys"`
}

// Folder is a directory pinned to the Dock with a display view (e.g. grid).
type Folder struct {
	Path string `yaml:"path"`
	View string `yaml:"view"`
}

// Dock describes the desired Dock contents and the UI processes to restart
// once all preference writes have landed.
// - Apps: ordered absolute application paths; missing paths are skipped.
// - Folders: folder shortcuts appended after the apps.
// - Restart: process names passed to killall (Dock, Finder, ...).
type Dock struct {
	Apps    []string `yaml:"apps"`
	Folders []Folder `yaml:"folders"`
	Restart []string `yaml:"restart"`
}

// Font represents a downloadable font release archive.
type Font struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Source  string `yaml:"source"` // Only "github" supported
	Repo    string `yaml:"repo"`   // GitHub repo, e.g., JetBrains/JetBrainsMono
	Tag     string `yaml:"tag"`    // GitHub release tag, e.g., v2.304
}

// Config is the top-level structure returned after loading all YAML
// configuration files.
type Config struct {
	Identity Identity
	Settings []Setting
	Handlers Handlers
	Dock     Dock
	Fonts    []Font
}
