package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shahar-caura/lifeline/internal/archive"
	"github.com/shahar-caura/lifeline/internal/config"
	"github.com/shahar-caura/lifeline/internal/export"
	"github.com/shahar-caura/lifeline/internal/provider/notifier"
	"github.com/shahar-caura/lifeline/internal/provider/speech"
	"github.com/shahar-caura/lifeline/internal/provider/vision"
	"github.com/shahar-caura/lifeline/internal/session"
	"github.com/shahar-caura/lifeline/internal/state"
	"github.com/shahar-caura/lifeline/internal/telemetry"
	"github.com/shahar-caura/lifeline/internal/triage"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var logLevel = new(slog.LevelVar)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	a := newApp(logger)
	err := a.rootCmd().ExecuteContext(context.Background())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := a.close(shutdownCtx); cerr != nil {
		logger.Warn("shutdown failed", "error", cerr)
	}

	if err != nil {
		logger.Error("lifeline failed", "error", err)
		os.Exit(1)
	}
}

// app holds what the subcommands share: flags, the loaded config and the
// resources opened from it.
type app struct {
	logger *slog.Logger

	configPath string
	sessionID  string
	verbose    bool

	cfg     *config.Config
	archive *archive.Store
	closers []func(context.Context) error
}

func newApp(logger *slog.Logger) *app {
	return &app{logger: logger}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	return newApp(logger).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lifeline",
		Short: "Emergency decision support: triage, step-by-step guidance and incident summaries",
		Long: `lifeline classifies a described emergency, walks a responder through
first-aid steps one at a time, and produces a handoff summary for
paramedics.

It does not diagnose. Always call emergency services for serious emergencies.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config file (default "+config.DefaultPath+")")
	root.PersistentFlags().StringVarP(&a.sessionID, "session", "s", "default", "session ID to operate on")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	_ = root.RegisterFlagCompletionFunc("session", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return a.completeSessionIDs(toComplete)
	})

	root.AddCommand(
		newClassifyCmd(a),
		newStartCmd(a),
		newNextCmd(a),
		newBackCmd(a),
		newLogCmd(a),
		newNotesCmd(a),
		newStatusCmd(a),
		newStepsCmd(a),
		newSummaryCmd(a),
		newSessionsCmd(a),
		newResetCmd(a),
		newCleanupCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
		newCompletionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.verbose {
		logLevel.Set(slog.LevelDebug)
	}

	cfg, err := a.config()
	if err != nil {
		return err
	}
	state.SetSessionsDir(cfg.State.Dir)

	if cfg.Telemetry.Endpoint != "" {
		shutdown, err := telemetry.Setup(cmd.Context(), cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("setting up telemetry: %w", err)
		}
		a.closers = append(a.closers, shutdown)
	}
	return nil
}

// config loads the config once. An explicit --config must exist; the default
// path is optional.
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	config.LoadEnvFiles()

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	return cfg, nil
}

// openArchive opens the configured archive, or returns nil when none is set.
func (a *app) openArchive() (*archive.Store, error) {
	if a.archive != nil {
		return a.archive, nil
	}
	if a.cfg == nil || a.cfg.Archive.Driver == "" {
		return nil, nil
	}
	store, err := archive.Open(a.cfg.Archive.Driver, a.cfg.Archive.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a.archive = store
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	return store, nil
}

// manager builds a session manager wired to every configured provider.
// Speech previews go to cmd's output.
func (a *app) manager(cmd *cobra.Command) (*session.Manager, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithCacheSize(cfg.Sessions.CacheSize),
		session.WithDetector(vision.Presence{}),
		session.WithSpeech(speech.NewConsole(cmd.OutOrStdout())),
	}

	if cfg.Notifier.Provider == "slack" {
		var nopts []notifier.Option
		if cfg.Notifier.Channel != "" {
			nopts = append(nopts, notifier.WithChannel(cfg.Notifier.Channel))
		}
		opts = append(opts, session.WithNotifier(
			notifier.New(cfg.Notifier.WebhookURL, nopts...),
			triage.Severity(cfg.Notifier.MinSeverity),
		))
	}

	switch cfg.Export.Provider {
	case "s3":
		s3 := cfg.Export.S3
		store, err := export.NewS3Store(export.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			Prefix:    s3.Prefix,
			UseSSL:    s3.UseSSL,
			URLExpiry: s3.URLExpiry.Duration,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring export: %w", err)
		}
		opts = append(opts, session.WithExportStore(store))
	default:
		opts = append(opts, session.WithExportStore(export.NewFileStore(cfg.Export.Dir)))
	}

	store, err := a.openArchive()
	if err != nil {
		return nil, err
	}
	if store != nil {
		opts = append(opts, session.WithArchive(store))
	}

	return session.NewManager(opts...), nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	a.archive = nil
	return errors.Join(errs...)
}
