// File: internal/browser/session_test.go
package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/dashprobe/internal/config"
)

func TestScreenshotFileName(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	assert.Equal(t, "before_login_20250314_150926.png", screenshotFileName("before_login", ts))
}

func TestSaveScreenshotCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "screenshots")
	s := &stubShotSession{png: []byte("not-a-real-png")}

	SaveScreenshot(context.Background(), s, dir, "charts_check", zaptest.NewLogger(t))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "charts_check_")
	assert.Contains(t, entries[0].Name(), ".png")
}

func TestSaveScreenshotSwallowsCaptureFailure(t *testing.T) {
	dir := t.TempDir()
	s := &stubShotSession{fail: true}

	// Must not panic or create artifacts.
	SaveScreenshot(context.Background(), s, dir, "broken", zaptest.NewLogger(t))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// stubShotSession implements Session just enough for screenshot tests.
type stubShotSession struct {
	png  []byte
	fail bool
}

func (s *stubShotSession) ID() string                                        { return "stub" }
func (s *stubShotSession) Navigate(context.Context, string) error            { return nil }
func (s *stubShotSession) CurrentURL(context.Context) (string, error)        { return "", nil }
func (s *stubShotSession) PageSource(context.Context) (string, error)        { return "", nil }
func (s *stubShotSession) Evaluate(context.Context, string, any) error       { return nil }
func (s *stubShotSession) Click(context.Context, string) error               { return nil }
func (s *stubShotSession) SendKeys(context.Context, string, string) error    { return nil }
func (s *stubShotSession) Close(context.Context) error                       { return nil }
func (s *stubShotSession) Screenshot(context.Context) ([]byte, error) {
	if s.fail {
		return nil, context.DeadlineExceeded
	}
	return s.png, nil
}

// TestChromeSessionLifecycle exercises the real browser stack against a local
// httptest server. It requires a Chrome binary; opt in with DASHPROBE_E2E=1.
func TestChromeSessionLifecycle(t *testing.T) {
	if os.Getenv("DASHPROBE_E2E") == "" {
		t.Skip("set DASHPROBE_E2E=1 to run browser integration tests")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1 id="title">Overview</h1></body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s, err := NewChromeSession(ctx, zaptest.NewLogger(t), config.BrowserConfig{
		Headless:     true,
		WindowWidth:  1280,
		WindowHeight: 800,
		WaitTimeout:  10 * time.Second,
	})
	require.NoError(t, err)
	defer s.Close(ctx)

	require.NoError(t, s.Navigate(ctx, srv.URL))

	url, err := s.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Contains(t, url, "127.0.0.1")

	source, err := s.PageSource(ctx)
	require.NoError(t, err)
	assert.Contains(t, source, "Overview")

	var count int
	require.NoError(t, s.Evaluate(ctx, `document.querySelectorAll('h1').length`, &count))
	assert.Equal(t, 1, count)

	png, err := s.Screenshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	require.NoError(t, s.Close(ctx))
	// Second close is a no-op.
	require.NoError(t, s.Close(ctx))
}
