package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/shipdesk/internal/app"
	"github.com/me/shipdesk/internal/config"
	"github.com/me/shipdesk/internal/logging"
	"github.com/me/shipdesk/internal/notify"
)

var (
	flagConfig    string
	flagHost      string
	flagAPIURL    string
	flagDataDir   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the shipdesk CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shipdesk",
		Short: "shipdesk: logistics back-office dashboard and tools",
		Long: "shipdesk signs in to the logistics REST API, serves the operator dashboard\n" +
			"and runs the same operations (imports, scans, lookups) from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagHost != "" {
				loaded.Host = flagHost
			}
			if flagAPIURL != "" {
				loaded.APIBaseURL = flagAPIURL
			}
			if flagDataDir != "" {
				loaded.DataDir = flagDataDir
			}
			if flagLogLevel != "" {
				loaded.LogLevel = flagLogLevel
			}
			if flagLogFormat != "" {
				loaded.LogFormat = flagLogFormat
			}
			if flagDebug {
				loaded.LogLevel = "debug"
			}
			cfg = loaded
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.StringVar(&flagHost, "host", "", "Hostname used to pick the API base URL (or SHIPDESK_HOST)")
	pf.StringVar(&flagAPIURL, "api-url", "", "API base URL, bypassing the hostname table (or SHIPDESK_API_BASE_URL)")
	pf.StringVar(&flagDataDir, "data-dir", "", "Directory for the session and local database (default ~/.shipdesk)")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newNavCmd(),
		newCustomersCmd(),
		newImportCmd("deliveries", "delivery destinations"),
		newImportCmd("pickups", "pickup locations"),
		newImportsCmd(),
		newScanCmd(),
		newServeCmd(),
		newStatusCmd(),
	)

	return root
}

// withApp opens the local state for the duration of fn.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// printer reports progress on stderr the way the dashboard shows toasts.
func printer(cmd *cobra.Command) notify.Notifier {
	return notify.NewPrinter(cmd.ErrOrStderr())
}

// requireSession fails with a hint when nobody is signed in.
func requireSession(a *app.App) error {
	if _, ok := a.Sessions.Get(); !ok {
		return fmt.Errorf("not signed in; run 'shipdesk login' first")
	}
	return nil
}
