package fonts

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"mac-bootstrap/internal/archive"
	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/state"
)

// githubRelease represents the structure of a GitHub release JSON response.
type githubRelease struct {
	TagName string `json:"tag_name"` // The release tag (e.g., v2.304)
	Assets  []struct {
		Name               string `json:"name"`                 // Asset filename
		BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
	} `json:"assets"`
}

// archiveSuffixes are the asset formats the extractor can handle, in
// preference order (font releases almost always ship zips).
var archiveSuffixes = []string{".zip", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".7z"}

// Installer downloads font release archives and installs their font files
// into the user font directory.
type Installer struct {
	// Client is the HTTP client used for the release API and asset download.
	Client *http.Client

	// FontDir is where font files are installed.
	// Defaults to ~/Library/Fonts when empty.
	FontDir string

	// APIBase is the GitHub API root. Overridable for tests.
	APIBase string
}

func (i *Installer) client() *http.Client {
	if i.Client != nil {
		return i.Client
	}
	return http.DefaultClient
}

func (i *Installer) fontDir() string {
	if i.FontDir != "" {
		return i.FontDir
	}
	return config.ExpandHome("~/Library/Fonts")
}

func (i *Installer) apiBase() string {
	if i.APIBase != "" {
		return i.APIBase
	}
	return "https://api.github.com"
}

// Sync installs every configured font that is missing from state or recorded
// at a different version. Downloads run concurrently; state updates are
// serialized with a mutex.
func (i *Installer) Sync(fonts []config.Font, st *state.State) []report.Result {
	logger.Debug("[DEBUG] Starting font sync with %d fonts, current state has %d entries\n", len(fonts), len(st.Fonts))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []report.Result
	)

	for _, font := range fonts {
		step := "font:" + font.Name

		mu.Lock()
		prev, ok := st.Fonts[font.Name]
		if ok && prev.Version == font.Version {
			logger.Info("[INFO] Font %s@%s already installed. Skipping.\n", font.Name, font.Version)
			results = append(results, report.Skipped(step, "already installed"))
			mu.Unlock()
			continue
		}
		mu.Unlock()

		wg.Add(1)
		go func(font config.Font) {
			defer wg.Done()

			files, err := i.install(font)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("[ERROR] Failed to install font %s@%s: %v\n", font.Name, font.Version, err)
				results = append(results, report.Failed(step, err.Error()))
				return
			}

			logger.Info("[INFO] Installed font %s@%s (%d files)\n", font.Name, font.Version, len(files))
			results = append(results, report.Applied(step, fmt.Sprintf("%d files", len(files))))
			st.Fonts[font.Name] = state.FontState{
				Name:    font.Name,
				Version: font.Version,
				Files:   files,
			}
		}(font)
	}

	wg.Wait()
	return results
}

// install downloads one font release, extracts it, and copies the font files
// into the font directory. It returns the installed file paths.
func (i *Installer) install(font config.Font) ([]string, error) {
	if font.Source != "" && font.Source != "github" {
		return nil, fmt.Errorf("unsupported font source %q", font.Source)
	}

	assetURL, assetName, err := i.resolveAsset(font)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "mac-bootstrap-font-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	archivePath := filepath.Join(workDir, assetName)
	logger.Debug("[DEBUG] Downloading font asset %s to %s\n", assetURL, archivePath)
	if err := i.downloadFile(assetURL, archivePath); err != nil {
		return nil, err
	}

	extractDir := filepath.Join(workDir, "extracted")
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return nil, err
	}
	if err := archive.Extract(archivePath, extractDir); err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", assetName, err)
	}

	fontFiles, err := archive.CollectFonts(extractDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(i.fontDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create font directory: %w", err)
	}

	var installed []string
	for _, src := range fontFiles {
		dst := filepath.Join(i.fontDir(), filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to install %s: %w", filepath.Base(src), err)
		}
		installed = append(installed, dst)
	}

	return installed, nil
}

// resolveAsset fetches the GitHub release for the font and picks the first
// asset the extractor can handle.
func (i *Installer) resolveAsset(font config.Font) (url, name string, err error) {
	releaseURL := fmt.Sprintf("%s/repos/%s/releases/tags/%s", i.apiBase(), font.Repo, font.Tag)
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", releaseURL)

	resp, err := i.client().Get(releaseURL)
	if err != nil {
		return "", "", fmt.Errorf("HTTP GET error fetching release for %s@%s: %w", font.Name, font.Tag, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("GitHub release fetch failed for %s@%s: HTTP status %d", font.Name, font.Tag, resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", fmt.Errorf("failed to decode GitHub release JSON for %s@%s: %w", font.Name, font.Tag, err)
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))

	for _, suffix := range archiveSuffixes {
		for _, asset := range release.Assets {
			if strings.HasSuffix(strings.ToLower(asset.Name), suffix) {
				return asset.BrowserDownloadURL, path.Base(asset.Name), nil
			}
		}
	}
	return "", "", fmt.Errorf("no extractable asset found in release %s of %s", release.TagName, font.Repo)
}

// downloadFile downloads the content at url into destPath.
func (i *Installer) downloadFile(url, destPath string) error {
	resp, err := i.client().Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded font archive to: %s\n", destPath)
	return nil
}

// copyFile copies src to dst, truncating any existing file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
