// File: internal/runner/runner.go
// Package runner sequences the smoke-check lifecycle against one browser
// session: initialize, login, verify metrics/navigation/charts, logout,
// cleanup. Failures never escalate past the owning check; the run always
// completes and always releases the session.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dashprobe/internal/browser"
	"github.com/xkilldash9x/dashprobe/internal/config"
	"github.com/xkilldash9x/dashprobe/internal/discovery"
)

// checkOrder fixes the check sequence and the summary table layout.
var checkOrder = []string{"Login", "Metrics", "Navigation", "Charts", "Logout"}

// passThreshold is the lenient overall verdict: 4 of the 5 checks suffice.
const passThreshold = 4

// cleanupTimeout bounds how long Cleanup waits for the browser to terminate.
const cleanupTimeout = 15 * time.Second

// SessionFactory acquires a browser session. Injected so tests can substitute
// a scripted session for the real Chrome stack.
type SessionFactory func(ctx context.Context) (browser.Session, error)

// Runner owns one browser session and the accumulated check results.
type Runner struct {
	cfg        *config.Config
	logger     *zap.Logger
	newSession SessionFactory
	session    browser.Session
	results    map[string]bool
}

// New creates a Runner. The session is not acquired until Initialize.
func New(cfg *config.Config, logger *zap.Logger, factory SessionFactory) *Runner {
	return &Runner{
		cfg:        cfg,
		logger:     logger.Named("runner"),
		newSession: factory,
		results:    make(map[string]bool, len(checkOrder)),
	}
}

// Initialize acquires the browser session. Returns false when both
// acquisition paths fail; that is the only fatal condition in the run.
func (r *Runner) Initialize(ctx context.Context) bool {
	if r.session != nil {
		return true
	}
	s, err := r.newSession(ctx)
	if err != nil {
		r.logger.Error("Browser session acquisition failed", zap.Error(err))
		return false
	}
	r.session = s
	r.logger.Info("Browser session acquired", zap.String("session_id", s.ID()))
	return true
}

// Capture saves a timestamped screenshot under the given label. Best effort:
// failures are logged, never raised.
func (r *Runner) Capture(ctx context.Context, label string) {
	if r.session == nil {
		return
	}
	browser.SaveScreenshot(ctx, r.session, r.cfg.Checks.ScreenshotDir, label, r.logger)
}

// Cleanup releases the browser session unconditionally. Safe to call twice.
func (r *Runner) Cleanup() {
	if r.session == nil {
		return
	}
	closeCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := r.session.Close(closeCtx); err != nil {
		r.logger.Warn("Error while closing browser session", zap.Error(err))
	}
	r.session = nil
}

// RunAll executes the full sequence. The dependent checks only run when login
// succeeded; otherwise they are recorded as failed. Cleanup always runs.
func (r *Runner) RunAll(ctx context.Context) bool {
	runID := uuid.New().String()
	log := r.logger.With(zap.String("run_id", runID[:8]))
	log.Info("Starting dashboard smoke run",
		zap.String("base_url", r.cfg.Target.BaseURL),
		zap.Bool("headless", r.cfg.Browser.Headless),
	)

	if !r.Initialize(ctx) {
		log.Error("Aborting run: no usable browser session")
		return false
	}
	defer r.Cleanup()

	r.results = make(map[string]bool, len(checkOrder))
	r.results["Login"] = r.Login(ctx)
	if r.results["Login"] {
		r.results["Metrics"] = r.VerifyMetrics(ctx)
		r.results["Navigation"] = r.VerifyNavigation(ctx)
		r.results["Charts"] = r.VerifyCharts(ctx)
		r.results["Logout"] = r.Logout(ctx)
	} else {
		for _, name := range checkOrder[1:] {
			r.results[name] = false
		}
	}

	log.Info("Run complete\n" + r.Summary())
	return r.Verdict()
}

// Results returns the per-check outcomes accumulated so far.
func (r *Runner) Results() map[string]bool {
	out := make(map[string]bool, len(r.results))
	for k, v := range r.results {
		out[k] = v
	}
	return out
}

// Verdict computes the overall outcome: at least 4 of the 5 checks passed.
func (r *Runner) Verdict() bool {
	passed := 0
	for _, ok := range r.results {
		if ok {
			passed++
		}
	}
	return passed >= passThreshold
}

// Summary renders the per-check PASS/FAIL table and the aggregate verdict.
func (r *Runner) Summary() string {
	var b strings.Builder
	rule := strings.Repeat("-", 40)
	b.WriteString(rule + "\n")
	for _, name := range checkOrder {
		b.WriteString(fmt.Sprintf("%-12s : %s\n", name, passFail(r.results[name])))
	}
	b.WriteString(rule + "\n")
	b.WriteString("OVERALL RESULT: " + passFail(r.Verdict()))
	return b.String()
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// wait sleeps for d while honoring context cancellation.
func (r *Runner) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// pollURL samples the current address in poll-step increments until match
// returns true or the window elapses. Returns the last observed URL.
func (r *Runner) pollURL(ctx context.Context, window time.Duration, match func(string) bool) (string, bool) {
	deadline := time.Now().Add(window)
	var last string
	for {
		url, err := r.session.CurrentURL(ctx)
		if err != nil {
			r.logger.Debug("Failed to read current URL while polling", zap.Error(err))
		} else {
			last = url
			if match(strings.ToLower(url)) {
				return url, true
			}
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return last, false
		}
		r.wait(ctx, r.cfg.Checks.PollStep)
	}
}

// dumpClickables logs the full clickable enumeration for post-mortem
// diagnosis when discovery came up empty.
func (r *Runner) dumpClickables(ctx context.Context, log *zap.Logger) {
	clickables, err := discovery.Clickables(ctx, r.session)
	if err != nil {
		log.Debug("Could not enumerate clickable elements for diagnosis", zap.Error(err))
		return
	}
	log.Info("Clickable elements on page", zap.Int("count", len(clickables)))
	for _, el := range clickables {
		log.Debug("Clickable",
			zap.String("tag", el.Tag),
			zap.String("text", el.Text),
			zap.String("class", el.Class),
			zap.String("cursor", el.Cursor),
		)
	}
}
