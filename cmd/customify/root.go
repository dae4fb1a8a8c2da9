package main

import (
	"fmt"

	"github.com/pixelgrade/customify/src/config"
	"github.com/pixelgrade/customify/src/customizer"
	"github.com/pixelgrade/customify/src/logging"
	"github.com/pixelgrade/customify/src/schema"
	"github.com/pixelgrade/customify/src/session"
	"github.com/pixelgrade/customify/src/tui"
	"github.com/pixelgrade/customify/src/undo"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func init() {
	// Query the terminal background before the program starts reading input,
	// otherwise the reply can end up in the command line.
	_ = lipgloss.HasDarkBackground()
}

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "customify [schema]",
	Short: "Edit theme settings in the terminal",
	Long: `customify lets you browse and edit the settings described by a schema
file (YAML or XML), with undo and redo of every change. Values are written
to a YAML values file.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.ReadConfigFile(v, cfgFile)
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .customify/config.yaml or ~/.config/customify/config.yaml)")
	flags.String("values", "", "values file to read and save")
	flags.String("session", "", "id of a session to resume")
	flags.Int("limit", 0, "maximum number of undo steps (0 keeps everything)")
	flags.Bool("watch", false, "reload the schema when it changes on disk")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, console)")

	_ = v.BindPFlag("values", flags.Lookup("values"))
	_ = v.BindPFlag("session.id", flags.Lookup("session"))
	_ = v.BindPFlag("undo.limit", flags.Lookup("limit"))
	_ = v.BindPFlag("watch", flags.Lookup("watch"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		v.Set("schema", args[0])
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logFile, err := tea.LogToFile(cfg.Log.File, "customify")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	sessionID := cfg.Session.ID
	resuming := len(sessionID) > 0
	if !resuming {
		sessionID = session.NewSessionID()
	}
	logger, err := logging.New(logging.Options{
		Level:         cfg.Log.Level,
		HumanReadable: cfg.HumanReadableLog(),
		Writer:        logFile,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = logger.With("session", sessionID)

	file, err := schema.Load(cfg.Schema)
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	registry, err := schema.Build(file)
	if err != nil {
		return fmt.Errorf("building settings from '%s': %w", cfg.Schema, err)
	}
	values, err := customizer.ReadValuesFile(cfg.Values)
	if err != nil {
		return fmt.Errorf("reading values: %w", err)
	}
	if skipped := registry.LoadValues(values); len(skipped) > 0 {
		logger.Warn(nil, "skipped stored values", "ids", skipped)
	}

	history := undo.NewManager()
	history.SetLimit(cfg.Undo.Limit)

	storage, err := openStorage(cfg.Session, sessionID)
	if err != nil {
		return err
	}
	tracker := customizer.NewTracker(registry, history, logger)
	undoLog := session.LoadUndoLog(storage, logger)
	if resuming {
		restored := tracker.Restore(undoLog.Recorded(), undoLog.CurrentStep)
		logger.Info("resumed session", "steps", restored)
	}

	opts := tui.Options{
		Registry:            registry,
		History:             history,
		Tracker:             tracker,
		Recorder:            session.NewRecorder(storage, history, logger),
		Logger:              logger,
		SchemaPath:          cfg.Schema,
		ValuesPath:          cfg.Values,
		Debounce:            cfg.Undo.Debounce,
		ClipboardClearDelay: cfg.Clipboard.ClearDelay,
	}
	if cfg.Watch {
		watcher, err := schema.NewWatcher(cfg.Schema, schema.DefaultWatchDebounce)
		if err != nil {
			return err
		}
		defer watcher.Stop()
		if opts.SchemaChanges, err = watcher.Start(); err != nil {
			return err
		}
		opts.SchemaErrors = watcher.Errors()
	}

	logger.Info("starting", "schema", cfg.Schema, "values", cfg.Values, "limit", cfg.Undo.Limit)
	if _, err := tea.NewProgram(tui.NewMainModel(opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	if cfg.Session.Backend == config.BackendFile {
		fmt.Fprintf(cmd.OutOrStdout(), "Resume this session with --session %s\n", sessionID)
	}
	return nil
}

func openStorage(cfg config.SessionConfig, sessionID string) (session.Storage, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return session.NewFileStorage(cfg.Dir, sessionID)
	default:
		return session.NewMemoryStorage(cfg.TTL), nil
	}
}
