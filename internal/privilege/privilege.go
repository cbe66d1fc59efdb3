package privilege

import (
	"fmt"
	"sync"
	"time"

	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/runner"
)

// refreshInterval is how often cached sudo credentials are refreshed.
// sudo's default timestamp timeout is 5 minutes, so 60 seconds keeps the
// session alive with plenty of margin.
const refreshInterval = 60 * time.Second

// KeepAlive requests elevated credentials once (`sudo -v`, which prompts),
// then starts a background goroutine refreshing them non-interactively every
// refreshInterval until the returned stop function is called.
//
// If elevation is denied an error is returned and no goroutine starts; later
// privileged writes will then fail on their own and surface as failed steps.
func KeepAlive(r runner.Runner) (stop func(), err error) {
	output, err := r.Run("sudo", "-v")
	if err != nil {
		return nil, fmt.Errorf("sudo elevation denied: %w (output: %s)", err, output)
	}

	logger.Debug("[DEBUG] sudo credentials cached; starting keep-alive loop\n")

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// Best-effort, non-interactive refresh. A failure here just
				// means a later privileged write may prompt again.
				if _, err := r.Run("sudo", "-n", "-v"); err != nil {
					logger.Debug("[DEBUG] sudo keep-alive refresh failed: %v\n", err)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}, nil
}
