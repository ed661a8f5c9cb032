// File: internal/browser/screenshot.go
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// parseArgFlag converts a "--name=value" or "--name" style argument into a
// chromedp allocator option.
func parseArgFlag(arg string) chromedp.ExecAllocatorOption {
	parts := strings.SplitN(arg, "=", 2)
	name := strings.TrimPrefix(parts[0], "--")
	if len(parts) == 2 {
		return chromedp.Flag(name, parts[1])
	}
	return chromedp.Flag(name, true)
}

// screenshotFileName builds the timestamped artifact name for a label.
func screenshotFileName(label string, now time.Time) string {
	return fmt.Sprintf("%s_%s.png", label, now.Format("20060102_150405"))
}

// SaveScreenshot captures the current viewport and writes it under dir as
// <label>_<YYYYMMDD_HHMMSS>.png. The directory is created if absent. Failures
// are logged and swallowed: screenshots are forensic artifacts, never worth
// failing a check over.
func SaveScreenshot(ctx context.Context, s Session, dir, label string, logger *zap.Logger) {
	png, err := s.Screenshot(ctx)
	if err != nil {
		logger.Warn("Failed to capture screenshot", zap.String("label", label), zap.Error(err))
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("Failed to create screenshot directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	path := filepath.Join(dir, screenshotFileName(label, time.Now()))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		logger.Warn("Failed to write screenshot", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("Screenshot saved", zap.String("path", path))
}
