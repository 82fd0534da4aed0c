package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justchokingaround/watchlist/internal/api"
	"github.com/justchokingaround/watchlist/internal/clipboard"
	"github.com/justchokingaround/watchlist/internal/config"
	"github.com/justchokingaround/watchlist/internal/report"
	"github.com/justchokingaround/watchlist/internal/tui"
	"github.com/justchokingaround/watchlist/internal/tui/watchlist"
	"github.com/justchokingaround/watchlist/internal/view"
	"github.com/justchokingaround/watchlist/internal/web"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"
	// Global flags
	cfgFile   string
	logLevel  string
	noColor   bool
	debugMode bool

	// Global config and logger
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Browse your anime watchlist grouped by genre",
	Long: `watchlist fetches your anime list once from the configured endpoint,
groups every title under each of its genres and shows the result as
card sections in the terminal. Use "watchlist serve" for the same view
in a browser.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for config init command
		if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		var err error
		var v *viper.Viper
		cfg, v, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if debugMode {
			cfg.Advanced.Debug = true
			if logLevel == "" {
				cfg.Logging.Level = "debug"
			}
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if noColor {
			cfg.Logging.Color = false
		}

		// groups writes its report to stdout, so its logs go to stderr
		if cmd.Name() == "groups" {
			logger, err = config.InitConsoleLogger(&cfg.Logging, os.Stderr)
		} else {
			logger, err = config.InitLogger(&cfg.Logging)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		slog.SetDefault(logger)

		// Hot reload only retunes logging; the list is never refetched
		if v.ConfigFileUsed() != "" {
			v.WatchConfig()
			v.OnConfigChange(func(e fsnotify.Event) {
				logger.Info("Config file changed", "name", e.Name)
				var reloaded config.Config
				if err := v.Unmarshal(&reloaded); err != nil {
					logger.Error("Failed to reload config", "error", err)
					return
				}
				if logLevel == "" && !debugMode {
					config.SetLogLevel(reloaded.Logging.Level)
				}
			})
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("watchlist starting...", "version", version)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := api.NewClient(cfg, logger)

		// browser writes the launcher's output to the terminal the UI owns
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard

		opts := watchlist.Options{
			Fetcher:       client,
			FallbackImage: cfg.Assets.FallbackImage,
			CardWidth:     cfg.TUI.CardWidth,
			Clipboard:     clipboard.NewService(logger, cfg.Advanced.Clipboard.Command),
			OpenURL:       browser.OpenURL,
			Logger:        logger,
		}
		if cfg.TUI.ProbeImages {
			opts.Images = client
		}

		state, err := tui.Run(ctx, opts)
		if err != nil {
			return err
		}
		if state.Status == view.StatusError {
			logger.Warn("watchlist closed in error state", "message", state.Message)
		}
		return nil
	},
}

var serveAddr string

// serveCmd renders the watchlist as a web page
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the watchlist as a web page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := api.NewClient(cfg, logger)
		holder := view.NewHolder()

		srv, err := web.NewServer(holder, web.Options{
			FallbackImage:  cfg.Assets.FallbackImage,
			RefreshSeconds: cfg.Server.RefreshSeconds,
			CORSOrigins:    cfg.Server.CORSOrigins,
		}, logger)
		if err != nil {
			return err
		}

		// Single fetch for the lifetime of the process
		go func() {
			logger.Info("Fetching anime list", "url", client.URL())
			state := view.Load(ctx, client)
			holder.Settle(state)
			if state.Status == view.StatusError {
				logger.Error("Anime list failed to load", "message", state.Message)
				return
			}
			logger.Info("Anime list loaded", "total", state.Total())
		}()

		httpServer := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      srv,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.Server.Addr)
			fmt.Fprintf(os.Stderr, "Serving watchlist on %s\n", cfg.Server.Addr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	},
}

var groupsFormat string

// groupsCmd prints the grouped list without a UI
var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Print the watchlist grouped by genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(groupsFormat)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		state := view.Load(ctx, api.NewClient(cfg, logger))
		return report.Write(cmd.OutOrStdout(), state, format)
	},
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("watchlist version %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
	},
}

// configCmd handles configuration operations
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = filepath.Join(config.GetConfigDir(), "config.yaml")
		}

		if err := config.WriteDefault(configPath, configForce); err != nil {
			return err
		}

		fmt.Printf("Default configuration generated successfully at: %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config file: %s\n", cfgFile)
		fmt.Printf("Endpoint: %s\n", cfg.API.URL())
		fmt.Printf("Fallback image: %s\n", cfg.Assets.FallbackImage)
		fmt.Printf("Server address: %s\n", cfg.Server.Addr)
		fmt.Printf("Log level: %s\n", cfg.Logging.Level)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			fmt.Println(cfgFile)
		} else {
			fmt.Println(config.GetConfigDir())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/watchlist/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode (verbose HTTP logging)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	groupsCmd.Flags().StringVarP(&groupsFormat, "format", "f", "text", "output format (text, json, yaml)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}
