package dock

import (
	"os"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/runner"
	"mac-bootstrap/internal/state"
)

// Builder reconstructs the Dock with dockutil.
//
// The reconciliation strategy is a full reset: clear every existing item, then
// append the configured apps in declared order followed by the folder
// shortcuts. With a small, static item list this is the simplest strategy
// whose final order is exactly the configured order, no matter what the Dock
// held before.
type Builder struct {
	Runner runner.Runner
}

// Rebuild clears the Dock and re-adds the configured items.
// Apps whose path does not exist on disk are skipped with a warning, so the
// final Dock contains a pinned app if and only if it is installed.
// All items are added with --no-restart; the Dock process is restarted once
// at the end of the run together with the other UI processes.
func (b *Builder) Rebuild(cfg config.Dock, st *state.State) []report.Result {
	var results []report.Result

	output, err := b.Runner.Run("dockutil", "--remove", "all", "--no-restart")
	if err != nil {
		logger.Error("[ERROR] Failed to clear Dock: %v\nOutput: %s\n", err, output)
		results = append(results, report.Failed("dock:clear", string(output)))
		// Keep going: the adds below may still land, matching the
		// best-effort contract of every other step.
	} else {
		logger.Info("[INFO] Cleared existing Dock items\n")
		results = append(results, report.Applied("dock:clear", ""))
	}

	var applied []string

	// Add each application in declared order; order of final Dock = list order.
	for _, app := range cfg.Apps {
		path := config.ExpandHome(app)
		step := "dock:" + path

		if _, err := os.Stat(path); err != nil {
			logger.Warn("[WARN] %s not found. Skipping Dock entry.\n", path)
			results = append(results, report.Skipped(step, "path does not exist"))
			continue
		}

		output, err := b.Runner.Run("dockutil", "--add", path, "--no-restart")
		if err != nil {
			logger.Error("[ERROR] Failed to add %s to Dock: %v\nOutput: %s\n", path, err, output)
			results = append(results, report.Failed(step, string(output)))
			continue
		}

		logger.Info("[INFO] Added %s to Dock\n", path)
		results = append(results, report.Applied(step, ""))
		applied = append(applied, path)
	}

	// Folder shortcuts come after all apps.
	for _, folder := range cfg.Folders {
		path := config.ExpandHome(folder.Path)
		step := "dock:" + path

		view := folder.View
		if view == "" {
			view = "grid"
		}

		if _, err := os.Stat(path); err != nil {
			logger.Warn("[WARN] Folder %s not found. Skipping Dock entry.\n", path)
			results = append(results, report.Skipped(step, "path does not exist"))
			continue
		}

		output, err := b.Runner.Run("dockutil", "--add", path, "--view", view, "--display", "folder", "--no-restart")
		if err != nil {
			logger.Error("[ERROR] Failed to add folder %s to Dock: %v\nOutput: %s\n", path, err, output)
			results = append(results, report.Failed(step, string(output)))
			continue
		}

		logger.Info("[INFO] Added folder %s to Dock (%s view)\n", path, view)
		results = append(results, report.Applied(step, view+" view"))
		applied = append(applied, path)
	}

	// Record the final item list for inspection. The rebuild itself never
	// consults this; the Dock is reset on every run.
	st.Dock = applied

	return results
}
