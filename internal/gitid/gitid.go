package gitid

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/runner"
)

// Configurator manages the global Git identity through `git config --global`.
//
// The global config is owned by Git, not by this tool: user.name and
// user.email are read before writing and left untouched when already set, so
// a second run never clobbers an identity the user changed by hand.
type Configurator struct {
	Runner runner.Runner

	// In is the prompt source for missing identity values (normally stdin).
	In io.Reader

	// Interactive gates prompting. When false (stdin is not a terminal),
	// missing values are skipped with a warning instead of blocking forever
	// on a read nobody will answer.
	Interactive bool

	// scanner wraps In; shared across prompts so buffered input survives
	// from one question to the next.
	scanner *bufio.Scanner
}

// Sync applies the configured Git identity:
//   - init.defaultBranch is set unconditionally,
//   - user.name and user.email are set only when Git reports them empty,
//     using the configured value or an interactive prompt as fallback.
func (c *Configurator) Sync(id config.Identity) []report.Result {
	var results []report.Result

	// Default branch is written every run; last-write-wins is the contract.
	branch := id.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	if output, err := c.Runner.Run("git", "config", "--global", "init.defaultBranch", branch); err != nil {
		logger.Error("[ERROR] Failed to set init.defaultBranch: %v\nOutput: %s\n", err, output)
		results = append(results, report.Failed("git:init.defaultBranch", string(output)))
	} else {
		logger.Info("[INFO] Set init.defaultBranch = %s\n", branch)
		results = append(results, report.Applied("git:init.defaultBranch", branch))
	}

	results = append(results, c.ensure("user.name", id.UserName, "Enter your Git user name: "))
	results = append(results, c.ensure("user.email", id.UserEmail, "Enter your Git email: "))

	return results
}

// ensure sets one identity key only if Git currently has no value for it.
// Precedence for the new value: configured value, then interactive prompt.
// Empty input is accepted silently and recorded as skipped.
func (c *Configurator) ensure(key, configured, prompt string) report.Result {
	step := "git:" + key

	// `git config --get` exits non-zero when the key is unset; treat any
	// error as "empty" and fall through to setting it.
	current, err := c.Runner.Run("git", "config", "--global", "--get", key)
	if err == nil && strings.TrimSpace(string(current)) != "" {
		logger.Info("[INFO] %s already set to %s. Leaving untouched.\n", key, strings.TrimSpace(string(current)))
		return report.Skipped(step, "already set")
	}

	value := configured
	if value == "" {
		if !c.Interactive {
			logger.Warn("[WARN] %s is unset and no value configured; skipping (non-interactive run)\n", key)
			return report.Skipped(step, "unset, non-interactive")
		}
		value = c.readLine(prompt)
	}
	if value == "" {
		logger.Warn("[WARN] Empty value entered for %s. Leaving unset.\n", key)
		return report.Skipped(step, "empty input")
	}

	if output, err := c.Runner.Run("git", "config", "--global", key, value); err != nil {
		logger.Error("[ERROR] Failed to set %s: %v\nOutput: %s\n", key, err, output)
		return report.Failed(step, string(output))
	}

	logger.Info("[INFO] Set %s = %s\n", key, value)
	return report.Applied(step, value)
}

// readLine prints the prompt and reads one trimmed line from c.In.
func (c *Configurator) readLine(prompt string) string {
	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.In)
	}
	fmt.Print(prompt)
	if !c.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

// Email returns the effective Git email for use as the SSH key comment:
// the value Git reports, falling back to the configured one.
func (c *Configurator) Email(id config.Identity) string {
	current, err := c.Runner.Run("git", "config", "--global", "--get", "user.email")
	if err == nil && strings.TrimSpace(string(current)) != "" {
		return strings.TrimSpace(string(current))
	}
	return id.UserEmail
}
