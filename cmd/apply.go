package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/dock"
	"mac-bootstrap/internal/fonts"
	"mac-bootstrap/internal/gitid"
	"mac-bootstrap/internal/handlers"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/prefs"
	"mac-bootstrap/internal/privilege"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/runner"
	"mac-bootstrap/internal/sshkey"
	"mac-bootstrap/internal/state"
)

// configPath holds the path to the main configuration YAML file.
// It's passed via the `--config` or `-c` flag.
var configPath string

// statePath is the path to the persistent state file.
// This file tracks applied settings, handlers, fonts, and the last Dock list.
var statePath = "state.json"

// applyStep runs one bootstrap concern against loaded config and state,
// appending its results to the summary.
type applyStep func(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary)

// runSteps is the shared body of `apply` and its subcommands: load config and
// state, run the given steps, persist state, print the summary, and exit
// non-zero when any step failed.
func runSteps(steps ...applyStep) {
	cfg := config.LoadConfig(configPath)
	st := state.LoadState(statePath)
	sum := &report.Summary{}
	r := runner.Exec{}

	for _, step := range steps {
		step(cfg, st, r, sum)
	}

	state.SaveState(statePath, st)
	sum.Print()
	if sum.HasFailures() {
		os.Exit(1)
	}
}

// newGitConfigurator wires the Git identity configurator to stdin, prompting
// only when the run is actually interactive.
func newGitConfigurator(r runner.Runner) *gitid.Configurator {
	return &gitid.Configurator{
		Runner:      r,
		In:          os.Stdin,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()),
	}
}

// The individual bootstrap steps, in the order the full apply runs them.

func stepGit(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	sum.Add(newGitConfigurator(r).Sync(cfg.Identity)...)
}

func stepSSH(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	// The key comment is the effective Git email, mirroring what a fresh
	// `ssh-keygen -C` run right after identity setup would use.
	comment := newGitConfigurator(r).Email(cfg.Identity)
	p := &sshkey.Provisioner{Runner: r}
	sum.Add(p.Ensure(cfg.Identity, comment, st))
}

func stepSettings(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	sum.Add(prefs.NewStore(r).Sync(cfg.Settings, st)...)
}

func stepHandlers(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	reg := &handlers.Registrar{Runner: r}
	sum.Add(reg.Sync(cfg.Handlers, st)...)
}

func stepDock(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	b := &dock.Builder{Runner: r}
	sum.Add(b.Rebuild(cfg.Dock, st)...)
}

func stepFonts(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	i := &fonts.Installer{}
	sum.Add(i.Sync(cfg.Fonts, st)...)
}

func stepRestart(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
	sum.Add(prefs.NewStore(r).RestartServices(cfg.Dock.Restart)...)
}

// applyCmd is the top-level command applying every bootstrap concern in
// order: privilege keep-alive, Git identity, SSH key, settings, handlers,
// Dock, fonts, and finally the UI process restarts.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the full workstation configuration (git, ssh, settings, handlers, dock, fonts)",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(func(cfg config.Config, st *state.State, r runner.Runner, sum *report.Summary) {
			// Elevate once and keep credentials fresh for the whole run so
			// privileged writes never re-prompt mid-way.
			stop, err := privilege.KeepAlive(r)
			if err != nil {
				logger.Warn("[WARN] Continuing without elevated credentials: %v\n", err)
				sum.Add(report.Failed("privilege:sudo", err.Error()))
			} else {
				defer stop()
			}

			for _, step := range []applyStep{
				stepGit, stepSSH, stepSettings, stepHandlers, stepDock, stepFonts, stepRestart,
			} {
				step(cfg, st, r, sum)
			}
		})
	},
}

// applyGitCmd applies only the Git identity configuration.
var applyGitCmd = &cobra.Command{
	Use:   "git",
	Short: "Apply only the Git identity configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(stepGit)
	},
}

// applySSHCmd provisions only the SSH key.
var applySSHCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Generate the SSH key if it does not exist yet",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(stepSSH)
	},
}

// applySettingsCmd applies only the macOS preference settings.
var applySettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Apply only the macOS preference settings",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(stepSettings, stepRestart)
	},
}

// applyHandlersCmd applies only the default-application and hotkey registrations.
var applyHandlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "Register only the default-application handlers and hotkey overrides",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(stepHandlers)
	},
}

// applyDockCmd rebuilds only the Dock.
var applyDockCmd = &cobra.Command{
	Use:   "dock",
	Short: "Rebuild only the Dock from the configured item list",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(stepDock, stepRestart)
	},
}

// applyFontsCmd installs only the configured fonts.
var applyFontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "Install only the configured fonts",
	Run: func(cmd *cobra.Command, args []string) {
		runSteps(stepFonts)
	},
}

// init sets up CLI flags and adds subcommands to the root command.
func init() {
	// Global flag for specifying config file path
	applyCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")

	// Add subcommands for more granular control
	applyCmd.AddCommand(applyGitCmd)
	applyCmd.AddCommand(applySSHCmd)
	applyCmd.AddCommand(applySettingsCmd)
	applyCmd.AddCommand(applyHandlersCmd)
	applyCmd.AddCommand(applyDockCmd)
	applyCmd.AddCommand(applyFontsCmd)
	// Register the `apply` command with the root command
	rootCmd.AddCommand(applyCmd)
}
