// File: internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dashprobe/internal/config"
)

// Session is the contract the checks run against. It is deliberately small:
// everything the probe does is either navigation, script evaluation against
// the live DOM, or an interaction with a previously marked element.
type Session interface {
	ID() string
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)
	// Evaluate runs a JavaScript expression in the page and unmarshals the
	// JSON result into out. A nil out discards the result.
	Evaluate(ctx context.Context, expr string, out any) error
	Click(ctx context.Context, selector string) error
	SendKeys(ctx context.Context, selector, text string) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close(ctx context.Context) error
}

// ensure ChromeSession implements the interface
var _ Session = (*ChromeSession)(nil)

// ChromeSession drives a single headless Chrome tab over CDP.
type ChromeSession struct {
	id     string
	logger *zap.Logger
	cfg    config.BrowserConfig

	// allocatorCtx manages the browser process; the tab context derives from it.
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc
	tabCtx          context.Context
	tabCancel       context.CancelFunc

	closed bool
	mu     sync.Mutex
}

// fallbackBinaries are probed when the default Chrome acquisition fails and no
// explicit exec path is configured.
var fallbackBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// NewChromeSession acquires a browser session. The primary path relies on
// chromedp's default browser lookup; if launching fails, one retry is made
// with an explicitly provisioned binary (configured exec_path, or the first
// well known binary found on PATH). Both paths failing is fatal to the run.
func NewChromeSession(ctx context.Context, logger *zap.Logger, cfg config.BrowserConfig) (*ChromeSession, error) {
	s := &ChromeSession{
		id:     uuid.New().String(),
		cfg:    cfg,
		logger: logger.Named("browser"),
	}
	s.logger = s.logger.With(zap.String("session_id", s.id[:8]))

	if err := s.launch(ctx, ""); err != nil {
		s.logger.Warn("Default browser acquisition failed, trying fallback binary", zap.Error(err))

		execPath := cfg.ExecPath
		if execPath == "" {
			execPath = locateBinary()
		}
		if execPath == "" {
			return nil, fmt.Errorf("browser acquisition failed and no fallback binary found: %w", err)
		}
		if err := s.launch(ctx, execPath); err != nil {
			return nil, fmt.Errorf("both browser acquisition paths failed: %w", err)
		}
		s.logger.Info("Browser launched via fallback binary", zap.String("exec_path", execPath))
	}

	return s, nil
}

// launch starts the browser process, opens the session tab and verifies the
// whole stack is responsive before handing it out.
func (s *ChromeSession) launch(ctx context.Context, execPath string) error {
	opts := buildAllocatorOptions(s.cfg, execPath)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Confirm the browser starts and responds within a bounded window.
	verifyCtx, cancel := context.WithTimeout(tabCtx, 30*time.Second)
	defer cancel()

	err := chromedp.Run(verifyCtx,
		network.Enable(),
		chromedp.EmulateViewport(int64(s.cfg.WindowWidth), int64(s.cfg.WindowHeight)),
		chromedp.Navigate("about:blank"),
	)
	if err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("browser failed to start or respond: %w", err)
	}

	s.allocatorCtx = allocCtx
	s.allocatorCancel = allocCancel
	s.tabCtx = tabCtx
	s.tabCancel = tabCancel
	s.logger.Info("Browser session initialized",
		zap.Bool("headless", s.cfg.Headless),
		zap.Int("width", s.cfg.WindowWidth),
		zap.Int("height", s.cfg.WindowHeight),
	)
	return nil
}

// buildAllocatorOptions assembles the launch flags for the browser process.
func buildAllocatorOptions(cfg config.BrowserConfig, execPath string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	// Flags required when running inside containers (e.g. Docker on Linux).
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	for _, arg := range cfg.Args {
		opts = append(opts, parseArgFlag(arg))
	}

	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

// locateBinary returns the first well known browser binary found on PATH.
func locateBinary() string {
	for _, name := range fallbackBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// run executes chromedp actions against the session tab while honoring the
// caller's deadline.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx := s.tabCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(runCtx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

// ID returns the unique identifier for this session.
func (s *ChromeSession) ID() string {
	return s.id
}

// Navigate loads a URL and waits for the document body to be ready.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))
	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// CurrentURL reports the tab's current location.
func (s *ChromeSession) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, chromedp.Location(&url))
	return url, err
}

// PageSource returns the rendered document markup.
func (s *ChromeSession) PageSource(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Evaluate runs a JavaScript expression in the page.
func (s *ChromeSession) Evaluate(ctx context.Context, expr string, out any) error {
	if out == nil {
		return s.run(ctx, chromedp.Evaluate(expr, nil))
	}
	return s.run(ctx, chromedp.Evaluate(expr, out))
}

// Click clicks the first visible element matching the CSS selector.
func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// SendKeys types text into the element matching the CSS selector.
func (s *ChromeSession) SendKeys(ctx context.Context, selector, text string) error {
	return s.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// Screenshot captures the viewport as PNG bytes.
func (s *ChromeSession) Screenshot(ctx context.Context) ([]byte, error) {
	var png []byte
	err := s.run(ctx, chromedp.CaptureScreenshot(&png))
	return png, err
}

// Close terminates the tab and the browser process. Safe to call twice.
func (s *ChromeSession) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocatorCancel != nil {
		s.allocatorCancel()
		select {
		case <-s.allocatorCtx.Done():
		case <-ctx.Done():
			s.logger.Warn("Close deadline exceeded before browser confirmed termination", zap.Error(ctx.Err()))
		}
	}
	s.logger.Info("Browser session closed")
	return nil
}
