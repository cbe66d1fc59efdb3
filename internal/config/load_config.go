package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the main config.yaml file and the five referenced sub-configs:
// identity.yaml, settings.yaml, handlers.yaml, dock.yaml, and fonts.yaml.
// It returns a populated Config struct.
//
// Sub-file paths are resolved relative to the directory of the main config file
// so the tool can be invoked from anywhere.
func LoadConfig(configFile string) Config {
	// mainConfig holds the paths to the per-concern config files
	mainConfig := struct {
		Config struct {
			IdentityFile string `yaml:"identity_file"`
			SettingsFile string `yaml:"settings_file"`
			HandlersFile string `yaml:"handlers_file"`
			DockFile     string `yaml:"dock_file"`
			FontsFile    string `yaml:"fonts_file"`
		} `yaml:"config"`
	}{}

	// Read and parse the main config.yaml which holds metadata (paths to other YAMLs)
	raw, err := os.ReadFile(configFile)
	if err != nil {
		panic("Failed to read config.yaml: " + err.Error())
	}
	if err := yaml.Unmarshal(raw, &mainConfig); err != nil {
		panic("Failed to unmarshal config.yaml: " + err.Error())
	}

	baseDir := filepath.Dir(configFile)

	// ----- Load identity.yaml -----
	var identityWrapper struct {
		Identity Identity `yaml:"identity"`
	}
	loadInto(baseDir, mainConfig.Config.IdentityFile, &identityWrapper)

	// ----- Load settings.yaml -----
	// This expects the structure: settings: { macos: [ {domain, key, value, type}, ... ] }
	var settingsWrapper struct {
		Settings struct {
			MacOS []Setting `yaml:"macos"`
		} `yaml:"settings"`
	}
	loadInto(baseDir, mainConfig.Config.SettingsFile, &settingsWrapper)

	// ----- Load handlers.yaml -----
	var handlersWrapper struct {
		Handlers Handlers `yaml:"handlers"`
	}
	loadInto(baseDir, mainConfig.Config.HandlersFile, &handlersWrapper)

	// ----- Load dock.yaml -----
	var dockWrapper struct {
		Dock Dock `yaml:"dock"`
	}
	loadInto(baseDir, mainConfig.Config.DockFile, &dockWrapper)

	// ----- Load fonts.yaml -----
	var fontsWrapper struct {
		Fonts []Font `yaml:"fonts"`
	}
	loadInto(baseDir, mainConfig.Config.FontsFile, &fontsWrapper)

	// Assemble and return the full config object
	return Config{
		Identity: identityWrapper.Identity,
		Settings: settingsWrapper.Settings.MacOS,
		Handlers: handlersWrapper.Handlers,
		Dock:     dockWrapper.Dock,
		Fonts:    fontsWrapper.Fonts,
	}
}

// loadInto reads one sub-config file and unmarshals it into out.
// Like the main config, a missing or malformed sub-file is fatal: the tool
// refuses to half-apply a machine from a broken configuration.
func loadInto(baseDir, file string, out any) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic("Failed to read " + file + ": " + err.Error())
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic("Failed to unmarshal " + file + ": " + err.Error())
	}
}

// ExpandHome replaces a leading "~" in a configured path with the current
// user's home directory. Paths in dock.yaml and identity.yaml are written
// with "~" so the same config works across machines.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
