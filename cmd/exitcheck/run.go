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
	"syscall"
	"time"

	"github.com/phrazzld/exitcheck/internal/api"
	"github.com/phrazzld/exitcheck/internal/app"
	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/platform/feed"
	"github.com/phrazzld/exitcheck/internal/service/exit_session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	runAuthorization string
	runAutoGrant     bool
	runBackground    bool
	runPort          int
	runServe         bool
)

func init() {
	runCmd.Flags().StringVar(&runAuthorization, "authorization", "not_determined",
		"starting location authorization (not_determined, when_in_use, always, denied, restricted)")
	runCmd.Flags().BoolVar(&runAutoGrant, "auto-grant", true, "grant authorization requests immediately")
	runCmd.Flags().BoolVar(&runBackground, "background", false, "present sessions through the notifier instead of in the foreground")
	runCmd.Flags().IntVar(&runPort, "port", -1, "HTTP port (overrides server.port; 0 disables)")
	runCmd.Flags().BoolVar(&runServe, "serve", true, "keep serving HTTP after the feed ends until interrupted")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [feed|-]",
	Short: "Run the exit checker against a scripted location feed",
	Long: `Run the exit checker core with a scripted location feed read from a file
or stdin ("-"). Core events and session results are printed to stdout as
JSON lines. With a server port configured the HTTP adapter is served too.

Feed example:
  authorize always
  home 52.3702 4.8952 100
  item Keys
  item Wallet
  exit
  check Keys
  rush

Examples:
  # Replay a script with the in-memory stores
  exitcheck run morning.feed

  # Serve the HTTP adapter only
  exitcheck run --port 8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if runPort >= 0 {
		cfg.Server.Port = runPort
	}

	initial, ok := location.ParseAuthorizationStatus(runAuthorization)
	if !ok {
		return fmt.Errorf("unknown authorization %q", runAuthorization)
	}

	var steps []feed.Step
	if len(args) == 1 {
		steps, err = readFeed(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, release, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer release()

	return runCore(ctx, cfg, stores, initial, steps, cmd.OutOrStdout(), log)
}

func readFeed(path string, stdin io.Reader) ([]feed.Step, error) {
	if path == "-" {
		return feed.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed: %w", err)
	}
	defer func() { _ = f.Close() }()
	return feed.Parse(f)
}

// runCore wires the core to a scripted feed, plays it and serves HTTP
// when a port is configured.
func runCore(
	ctx context.Context,
	cfg *config.Config,
	stores app.Stores,
	initial location.AuthorizationStatus,
	steps []feed.Step,
	out io.Writer,
	log *slog.Logger,
) error {
	svc := feed.NewService(initial, runAutoGrant, log)
	defer svc.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	printer := newEventPrinter(out)
	core, err := app.New(cfg, app.Dependencies{
		Stores:     stores,
		Location:   svc,
		Notifier:   printer,
		Foreground: exit_session.ForegroundFunc(func() bool { return !runBackground }),
		Registerer: reg,
	}, log)
	if err != nil {
		return err
	}
	core.Bus().RegisterHandler(printer)

	if err := core.Start(ctx); err != nil {
		return err
	}
	defer core.Stop()

	var server *http.Server
	serverErr := make(chan error, 1)
	if cfg.Server.Port > 0 {
		server = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.NewRouter(core, reg, log),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("starting server", slog.Int("port", cfg.Server.Port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()
	}

	player := feed.NewPlayer(svc, core.HandleSignal, &scriptActions{core: core, printer: printer}, log)
	if err := player.Play(ctx, steps); err != nil {
		shutdown(server, log)
		return fmt.Errorf("feed failed: %w", err)
	}
	log.Info("feed finished", slog.Int("steps", len(steps)))

	if server == nil {
		return nil
	}
	if runServe {
		select {
		case <-ctx.Done():
			log.Info("shutting down server")
		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		}
	}
	shutdown(server, log)
	return nil
}

func shutdown(server *http.Server, log *slog.Logger) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.String("error", err.Error()))
	}
}
