// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Target  TargetConfig  `mapstructure:"target" yaml:"target"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Checks  ChecksConfig  `mapstructure:"checks" yaml:"checks"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

// TargetConfig identifies the dashboard under test and the credentials used
// to authenticate against it.
type TargetConfig struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Email    string `mapstructure:"email" yaml:"email"`
	Password string `mapstructure:"password" yaml:"-"`
	// AuthHost is a substring identifying the authentication origin. When the
	// current URL already contains it, the probe assumes it is sitting on the
	// login form and skips the login-link hunt.
	AuthHost string `mapstructure:"auth_host" yaml:"auth_host"`
}

// BrowserConfig holds settings for the headless browser session.
type BrowserConfig struct {
	Headless     bool     `mapstructure:"headless" yaml:"headless"`
	WindowWidth  int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int      `mapstructure:"window_height" yaml:"window_height"`
	// ExecPath is the fallback browser binary. When empty, well known
	// install locations are probed instead.
	ExecPath    string        `mapstructure:"exec_path" yaml:"exec_path"`
	Args        []string      `mapstructure:"args" yaml:"args"`
	WaitTimeout time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`
}

// ChecksConfig tunes the pacing and artifact output of the five checks. The
// per-check waits let dynamic content settle before each scan; metrics and
// charts render more slowly than the navigation chrome, hence the longer
// defaults for those two.
type ChecksConfig struct {
	ScreenshotDir string        `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	PostNavWait   time.Duration `mapstructure:"post_nav_wait" yaml:"post_nav_wait"`
	PostClickWait time.Duration `mapstructure:"post_click_wait" yaml:"post_click_wait"`
	MetricsWait   time.Duration `mapstructure:"metrics_wait" yaml:"metrics_wait"`
	NavWait       time.Duration `mapstructure:"nav_wait" yaml:"nav_wait"`
	ChartsWait    time.Duration `mapstructure:"charts_wait" yaml:"charts_wait"`
	LogoutWait    time.Duration `mapstructure:"logout_wait" yaml:"logout_wait"`
	LoginPoll     time.Duration `mapstructure:"login_poll" yaml:"login_poll"`
	LogoutPoll    time.Duration `mapstructure:"logout_poll" yaml:"logout_poll"`
	PollStep      time.Duration `mapstructure:"poll_step" yaml:"poll_step"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers the built-in defaults on the given viper instance.
// The literals reproduce the probe's original hardcoded target so that a bare
// `dashprobe check` behaves identically to the historical script.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("target.base_url", "https://ua.segwise.ai")
	v.SetDefault("target.email", "qa@segwise.ai")
	v.SetDefault("target.password", "segwise_test")
	v.SetDefault("target.auth_host", "auth.segwise.ai")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1280)
	v.SetDefault("browser.window_height", 800)
	v.SetDefault("browser.wait_timeout", 10*time.Second)

	v.SetDefault("checks.screenshot_dir", "screenshots")
	v.SetDefault("checks.post_nav_wait", 5*time.Second)
	v.SetDefault("checks.post_click_wait", 3*time.Second)
	v.SetDefault("checks.metrics_wait", 3*time.Second)
	v.SetDefault("checks.nav_wait", 2*time.Second)
	v.SetDefault("checks.charts_wait", 3*time.Second)
	v.SetDefault("checks.logout_wait", 2*time.Second)
	v.SetDefault("checks.login_poll", 20*time.Second)
	v.SetDefault("checks.logout_poll", 10*time.Second)
	v.SetDefault("checks.poll_step", 1*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "dashprobe")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
}

// Validate rejects configurations the probe cannot run with.
func (c *Config) Validate() error {
	if c.Target.BaseURL == "" {
		return fmt.Errorf("target.base_url must not be empty")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window dimensions must be positive (got %dx%d)",
			c.Browser.WindowWidth, c.Browser.WindowHeight)
	}
	if c.Browser.WaitTimeout <= 0 {
		return fmt.Errorf("browser.wait_timeout must be positive")
	}
	if c.Checks.PollStep <= 0 {
		return fmt.Errorf("checks.poll_step must be positive")
	}
	if c.Checks.LoginPoll < c.Checks.PollStep || c.Checks.LogoutPoll < c.Checks.PollStep {
		return fmt.Errorf("poll windows must be at least one poll step")
	}
	return nil
}
