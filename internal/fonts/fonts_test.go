package fonts

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/report"
	"mac-bootstrap/internal/state"
)

// fontZip builds an in-memory zip holding one font file.
func fontZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create("fonts/TestMono-Regular.ttf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("ttf bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// newReleaseServer serves a GitHub-shaped release endpoint plus the asset
// download it points at.
func newReleaseServer(t *testing.T, repo, tag string) *httptest.Server {
	t.Helper()
	archive := fontZip(t)

	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/repos/%s/releases/tags/%s", repo, tag), func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"tag_name": %q,
			"assets": [
				{"name": "checksums.txt", "browser_download_url": "http://%s/dl/checksums.txt"},
				{"name": "TestMono.zip", "browser_download_url": "http://%s/dl/TestMono.zip"}
			]
		}`, tag, r.Host, r.Host)
	})
	mux.HandleFunc("/dl/TestMono.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})

	return httptest.NewServer(mux)
}

func newState() *state.State {
	return state.LoadState("/nonexistent/state.json")
}

func TestSyncInstallsFont(t *testing.T) {
	srv := newReleaseServer(t, "acme/TestMono", "v1.0.0")
	defer srv.Close()

	fontDir := t.TempDir()
	installer := &Installer{Client: srv.Client(), FontDir: fontDir, APIBase: srv.URL}
	st := newState()

	font := config.Font{Name: "TestMono", Version: "1.0.0", Source: "github", Repo: "acme/TestMono", Tag: "v1.0.0"}
	results := installer.Sync([]config.Font{font}, st)

	require.Len(t, results, 1)
	assert.Equal(t, report.StatusApplied, results[0].Status)

	// The font file landed in the font directory.
	installed := filepath.Join(fontDir, "TestMono-Regular.ttf")
	content, err := os.ReadFile(installed)
	require.NoError(t, err)
	assert.Equal(t, "ttf bytes", string(content))

	// State records the install.
	rec, ok := st.Fonts["TestMono"]
	require.True(t, ok)
	assert.Equal(t, "1.0.0", rec.Version)
	assert.Equal(t, []string{installed}, rec.Files)
}

func TestSyncSkipsInstalledVersion(t *testing.T) {
	// No server: a skip must not touch the network at all.
	installer := &Installer{FontDir: t.TempDir(), APIBase: "http://127.0.0.1:0"}
	st := newState()
	st.Fonts["TestMono"] = state.FontState{Name: "TestMono", Version: "1.0.0"}

	font := config.Font{Name: "TestMono", Version: "1.0.0", Repo: "acme/TestMono", Tag: "v1.0.0"}
	results := installer.Sync([]config.Font{font}, st)

	require.Len(t, results, 1)
	assert.Equal(t, report.StatusSkipped, results[0].Status)
}

func TestSyncReinstallsNewVersion(t *testing.T) {
	srv := newReleaseServer(t, "acme/TestMono", "v2.0.0")
	defer srv.Close()

	installer := &Installer{Client: srv.Client(), FontDir: t.TempDir(), APIBase: srv.URL}
	st := newState()
	st.Fonts["TestMono"] = state.FontState{Name: "TestMono", Version: "1.0.0"}

	font := config.Font{Name: "TestMono", Version: "2.0.0", Repo: "acme/TestMono", Tag: "v2.0.0"}
	results := installer.Sync([]config.Font{font}, st)

	require.Len(t, results, 1)
	assert.Equal(t, report.StatusApplied, results[0].Status)
	assert.Equal(t, "2.0.0", st.Fonts["TestMono"].Version)
}

func TestSyncMissingReleaseFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	installer := &Installer{Client: srv.Client(), FontDir: t.TempDir(), APIBase: srv.URL}
	st := newState()

	font := config.Font{Name: "TestMono", Version: "1.0.0", Repo: "acme/TestMono", Tag: "v9.9.9"}
	results := installer.Sync([]config.Font{font}, st)

	require.Len(t, results, 1)
	assert.Equal(t, report.StatusFailed, results[0].Status)
	_, ok := st.Fonts["TestMono"]
	assert.False(t, ok, "failed install must not be recorded in state")
}

func TestSyncUnsupportedSource(t *testing.T) {
	installer := &Installer{FontDir: t.TempDir()}
	st := newState()

	font := config.Font{Name: "TestMono", Version: "1.0.0", Source: "homebrew"}
	results := installer.Sync([]config.Font{font}, st)

	require.Len(t, results, 1)
	assert.Equal(t, report.StatusFailed, results[0].Status)
}
