package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"emperror.dev/errors"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ftahirops/xmon/collector"
	"github.com/ftahirops/xmon/config"
	"github.com/ftahirops/xmon/engine"
	"github.com/ftahirops/xmon/ui"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

// app is the state shared by all commands of one invocation.
type app struct {
	cfg config.Config

	configPath string
	logFile    string
	recordPath string
	replayPath string

	logCloser io.Closer
}

// NewRootCmd builds the xmon command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	root := &cobra.Command{
		Use:   "xmon",
		Short: "Process and resource monitor",
		Long: `xmon samples host CPU and memory and per-process usage, ranks processes by CPU,
and lets you export the ranking or terminate a process.

Without a subcommand it starts the interactive terminal UI.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	def := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/xmon/config.yaml)")
	pf.DurationVar(&a.cfg.Interval, "interval", def.Interval, "Sampling interval")
	pf.IntVar(&a.cfg.HistorySize, "history", def.HistorySize, "Samples kept for the CPU and memory graphs")
	pf.IntVar(&a.cfg.TopN, "top", def.TopN, "Processes shown in tables")
	pf.StringVar(&a.cfg.Backend, "backend", def.Backend, "Sampling backend: auto, proc or psutil")
	pf.StringVar(&a.cfg.ExportPath, "export-path", def.ExportPath, "File written by export")
	pf.StringVar(&a.cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9109")
	pf.StringVar(&a.cfg.LogLevel, "log-level", def.LogLevel, "Log level. One of debug, info, warn, error.")
	pf.StringVar(&a.logFile, "log-file", "", "Log file for the interactive UI (default $XDG_STATE_HOME/xmon/xmon.log)")
	pf.StringVar(&a.replayPath, "replay", "", "Replay snapshots from a recorded file instead of sampling")
	root.Flags().StringVar(&a.cfg.Theme, "theme", def.Theme, "Colour theme: dark, light or dracula")
	root.Flags().StringVar(&a.recordPath, "record", "", "Record sampled snapshots to file")

	root.AddCommand(
		a.newWatchCmd(),
		a.newExportCmd(),
		a.newKillCmd(),
		a.newSnapshotCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// setup merges the config file under the flags and configures logging.
// Flags the user set explicitly win over the file.
func (a *app) setup(cmd *cobra.Command) error {
	if a.recordPath != "" && a.replayPath != "" {
		return errors.New("--record and --replay cannot be combined")
	}
	fileCfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if !flags.Changed(name) {
			apply()
		}
	}
	override("interval", func() { a.cfg.Interval = fileCfg.Interval })
	override("history", func() { a.cfg.HistorySize = fileCfg.HistorySize })
	override("top", func() { a.cfg.TopN = fileCfg.TopN })
	override("backend", func() { a.cfg.Backend = fileCfg.Backend })
	override("export-path", func() { a.cfg.ExportPath = fileCfg.ExportPath })
	override("metrics-addr", func() { a.cfg.MetricsAddr = fileCfg.MetricsAddr })
	override("log-level", func() { a.cfg.LogLevel = fileCfg.LogLevel })
	override("theme", func() { a.cfg.Theme = fileCfg.Theme })

	lvl, err := log.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)

	// The UI owns the terminal, so its logs go to a file.
	if cmd == cmd.Root() {
		if err := a.logToFile(); err != nil {
			return err
		}
	} else {
		log.SetOutput(cmd.ErrOrStderr())
	}

	for _, note := range a.cfg.Validate() {
		log.Warn(note)
	}
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	if a.configPath == "" {
		return config.Load(), nil
	}
	cfg, err := config.LoadFrom(a.configPath)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", a.configPath).Debug("config file not found, using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.WrapIff(err, "load config %s", a.configPath)
	}
	return cfg, nil
}

func (a *app) logToFile() error {
	path := a.logFile
	if path == "" {
		dir := config.StateDir()
		if dir == "" {
			log.SetOutput(io.Discard)
			return nil
		}
		path = filepath.Join(dir, "xmon.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.WrapIf(err, "create log directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return errors.WrapIff(err, "open log file %s", path)
	}
	log.SetOutput(f)
	a.logCloser = f
	return nil
}

// newSource returns the replay player or a live sampler, optionally wrapped
// by a recorder. The returned closer releases the record file.
func (a *app) newSource(ctx context.Context) (engine.Source, func(), error) {
	noop := func() {}
	if a.replayPath != "" {
		f, err := os.Open(a.replayPath)
		if err != nil {
			return nil, noop, errors.WrapIf(err, "cannot open replay file")
		}
		defer f.Close()
		player, err := engine.NewPlayer(f)
		if err != nil {
			return nil, noop, errors.WrapIf(err, "cannot parse replay file")
		}
		log.WithField("frames", player.Len()).Info("replaying recording")
		return player, noop, nil
	}

	backend, err := collector.ParseBackend(a.cfg.Backend)
	if err != nil {
		return nil, noop, err
	}
	sampler, err := collector.NewSampler(ctx, backend)
	if err != nil {
		return nil, noop, err
	}
	log.WithField("backend", sampler.Backend()).WithField("cores", sampler.CoreCount()).Debug("sampler ready")

	if a.recordPath == "" {
		return sampler, noop, nil
	}
	f, err := os.Create(a.recordPath)
	if err != nil {
		return nil, noop, errors.WrapIf(err, "cannot create record file")
	}
	return engine.NewRecorder(sampler, f), func() { f.Close() }, nil
}

// newController builds the controller and starts the metrics listener if
// one is configured. The listener stops with ctx.
func (a *app) newController(ctx context.Context, src engine.Source) *engine.Controller {
	opts := []engine.ControllerOption{
		engine.WithHistorySize(a.cfg.HistorySize),
		engine.WithExporter(engine.NewExporter(a.cfg.ExportPath)),
	}
	if a.cfg.MetricsAddr != "" {
		m := engine.NewMetrics()
		opts = append(opts, engine.WithMetrics(m))
		go func() {
			if err := m.Serve(ctx, a.cfg.MetricsAddr); err != nil {
				log.WithError(err).Error("metrics listener stopped")
			}
		}()
	}
	return engine.NewController(src, opts...)
}

func (a *app) runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src, closeSrc, err := a.newSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	theme, ok := ui.ParseTheme(a.cfg.Theme)
	if !ok {
		log.WithField("theme", a.cfg.Theme).Warn("unknown theme, using dark")
	}

	ctrl := a.newController(ctx, src)
	worker := engine.NewSamplerWorker(src, a.cfg.Interval)
	go worker.Run(ctx)

	m := ui.NewModel(ctrl, worker.Snapshots(), ui.Options{
		TopN:     a.cfg.TopN,
		Theme:    theme,
		Interval: a.cfg.Interval,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// sampleOnce returns a controller holding one ranked snapshot. A live
// sampler is primed first, because its first sample carries no CPU rates.
func (a *app) sampleOnce(ctx context.Context) (*engine.Controller, func(), error) {
	src, closeSrc, err := a.newSource(ctx)
	if err != nil {
		return nil, closeSrc, err
	}
	ctrl := a.newController(ctx, src)
	if a.replayPath == "" {
		if _, err := ctrl.Tick(ctx); err != nil {
			return nil, closeSrc, err
		}
		select {
		case <-ctx.Done():
			return nil, closeSrc, ctx.Err()
		case <-time.After(a.cfg.Interval):
		}
	}
	if _, err := ctrl.Tick(ctx); err != nil {
		return nil, closeSrc, err
	}
	return ctrl, closeSrc, nil
}
