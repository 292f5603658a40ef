package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"facekiosk/internal/config"
	"facekiosk/internal/diagnostics"
	"facekiosk/internal/flow"
	"facekiosk/internal/logging"
	"facekiosk/internal/ui/kiosk"
	"facekiosk/internal/ui/plain"
	"facekiosk/pkg/recognition"
)

type runFlags struct {
	configFlags
	uiMode      string
	once        bool
	noColor     bool
	metricsAddr string
	logLevel    string
}

func newRunCommand(std streams) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the recognition kiosk",
		Long: "Shows the kiosk and runs one recognition flow per start: a countdown, a start request,\n" +
			"polling until the service reports a result, then the result screen.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(func(cfg *config.Config) {
				if cmd.Flags().Changed("ui") {
					cfg.UI.Mode = flags.uiMode
				}
				if flags.noColor {
					cfg.UI.NoColor = true
				}
				if cmd.Flags().Changed("metrics-addr") {
					cfg.Diagnostics.ListenAddr = flags.metricsAddr
				}
				if cmd.Flags().Changed("log-level") {
					cfg.Log.Level = flags.logLevel
				}
			})
			if err != nil {
				return usageError(err)
			}
			decision, err := resolveUIMode(cfg.UI.Mode, flags.once, std.stdout)
			if err != nil {
				return usageError(err)
			}
			if decision.warning != "" {
				fmt.Fprintln(std.stderr, decision.warning)
			}
			return runKiosk(cmd.Context(), cfg, decision, flags.once, std)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.uiMode, "ui", config.UIModeAuto, "presentation: auto|live|plain")
	cmd.Flags().BoolVar(&flags.once, "once", false, "run a single flow and exit with its result")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colors")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve /metrics, /state and /healthz on this address")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	return cmd
}

// runKiosk wires the client, controller, presenter and diagnostics.
func runKiosk(ctx context.Context, cfg config.Config, decision uiModeDecision, once bool, std streams) error {
	logOpts := logging.Options{Level: cfg.Log.Level, Writer: std.stderr}
	if decision.useLive {
		logOpts = logging.Options{Level: cfg.Log.Level, OutputPath: cfg.Log.File}
	}
	logger, err := logging.NewLogger(logOpts)
	if err != nil {
		return &exitError{code: ExitError, err: fmt.Errorf("create logger: %w", err)}
	}
	defer func() { _ = logger.Sync() }()

	client := recognition.New(cfg.Service.BaseURL, cfg.ClientOptions())
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := flow.NewMetrics(registry)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		presenter flow.Presenter
		forward   func(string)
		liveUI    *kiosk.Program
		printer   *plain.Printer
	)
	if decision.useLive {
		liveUI = kiosk.NewProgram(kiosk.Options{
			NoColor: cfg.UI.NoColor,
			BaseURL: cfg.Service.BaseURL,
			Health:  client.Health,
		})
		presenter, forward = liveUI, liveUI.Navigate
	} else {
		printer = plain.NewPrinter(std.stdout)
		presenter, forward = printer, printer.Navigate
	}

	ctrl := flow.New(client, flow.Options{
		Config:    cfg.FlowOptions(),
		Presenter: presenter,
		Navigator: resolvingNavigator(client, logger, forward),
		Logger:    logger,
		Metrics:   metrics,
	})
	defer ctrl.Reset()

	var wg sync.WaitGroup
	if cfg.Diagnostics.ListenAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := diagnostics.Serve(ctx, diagnostics.Config{
				Addr:     cfg.Diagnostics.ListenAddr,
				Gatherer: registry,
				Source:   ctrl,
				Logger:   logger,
			})
			if err != nil {
				logger.Error("diagnostics server failed", zap.Error(err))
			}
		}()
	}
	defer wg.Wait()
	defer cancel()

	logger.Info("kiosk started",
		zap.String("base_url", cfg.Service.BaseURL),
		zap.Bool("live", decision.useLive),
		zap.Bool("once", once),
	)

	switch {
	case liveUI != nil:
		target, err := liveUI.Run(ctx, ctrl, std.stdout, std.stdin)
		if err != nil {
			return &exitError{code: ExitError, err: fmt.Errorf("kiosk ui: %w", err)}
		}
		if target != "" {
			fmt.Fprintf(std.stdout, "redirect: %s\n", target)
		}
		return nil
	case once:
		outcome, err := plain.RunOnce(ctx, ctrl, printer)
		if err != nil {
			return &exitError{code: ExitError, err: err}
		}
		if !outcome.Succeeded() {
			return silentExit(ExitError)
		}
		return nil
	default:
		_, err := plain.RunInteractive(ctx, ctrl, client.Health, printer, stdinOrEmpty(std.stdin))
		if err != nil && ctx.Err() == nil {
			return &exitError{code: ExitError, err: err}
		}
		return nil
	}
}

// resolvingNavigator resolves redirect targets against the service base URL
// before handing them to the presenter.
func resolvingNavigator(client *recognition.Client, logger *zap.Logger, forward func(string)) flow.Navigator {
	return flow.NavigatorFunc(func(target string) {
		resolved, err := client.ResolveURL(target)
		if err != nil {
			logger.Warn("redirect target not resolvable, using as is", zap.String("target", target), zap.Error(err))
			resolved = target
		}
		forward(resolved)
	})
}

func stdinOrEmpty(in io.Reader) io.Reader {
	if in == nil {
		return strings.NewReader("")
	}
	return in
}
