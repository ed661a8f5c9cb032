package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dashprobe/internal/browser"
	"github.com/xkilldash9x/dashprobe/internal/config"
	"github.com/xkilldash9x/dashprobe/internal/observability"
	"github.com/xkilldash9x/dashprobe/internal/runner"
)

// errChecksFailed signals a completed run whose verdict came out FAIL; the
// run itself worked, so no usage help should be shown.
var errChecksFailed = errors.New("dashboard checks failed")

// newCheckCmd creates and configures the `check` command.
func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Runs the full smoke-check sequence against the dashboard",
		Long: `Launches a headless browser, logs into the configured dashboard, verifies
metrics, navigation and charts, and logs out again. The command exits
non-zero when fewer than four of the five checks pass.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their corresponding Viper keys so command-line
			// values override config file and environment settings.
			if err := viper.BindPFlag("target.base_url", cmd.Flags().Lookup("base-url")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			return viper.BindPFlag("checks.screenshot_dir", cmd.Flags().Lookup("screenshot-dir"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Allow a clean abort on Ctrl-C; the deferred cleanup inside the
			// runner still closes the browser.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config with flag overrides: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			r := runner.New(&cfg, logger, func(ctx context.Context) (browser.Session, error) {
				return browser.NewChromeSession(ctx, logger, cfg.Browser)
			})

			ok := r.RunAll(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), r.Summary())

			if ctx.Err() != nil {
				logger.Warn("Run aborted by signal", zap.Error(ctx.Err()))
				return fmt.Errorf("run aborted: %w", ctx.Err())
			}
			if !ok {
				return errChecksFailed
			}
			return nil
		},
	}

	checkCmd.Flags().String("base-url", "", "dashboard URL to probe (overrides config)")
	checkCmd.Flags().Bool("headless", true, "run the browser headless")
	checkCmd.Flags().String("screenshot-dir", "", "directory for diagnostic screenshots")

	return checkCmd
}
