package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/countersim/monitoring"
	"github.com/sarchlab/countersim/sim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the counter in real time behind a web page.",
	Long: "`serve` runs the counter on the wall clock and serves a web page " +
		"and an HTTP API to watch and control it, until interrupted.",
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "port of the web page (default from config)")
	serveCmd.Flags().Bool("open", false, "open the web page in a browser")
	serveCmd.Flags().Bool("start", false, "start the clock right away")
	serveCmd.Flags().String("db", "",
		"record the trace into this SQLite database (without .sqlite3)")
	addTraceRangeFlags(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.MonitorPort, _ = cmd.Flags().GetInt("port")
	}

	if cmd.Flags().Changed("open") {
		cfg.OpenBrowser, _ = cmd.Flags().GetBool("open")
	}

	if cmd.Flags().Changed("db") {
		cfg.TraceDB, _ = cmd.Flags().GetString("db")
	}

	if cfg.TraceDB != "" {
		sim.UseUniqueIDGenerator()
	}

	engine := sim.NewRealTimeEngine()
	s := buildSimulator(engine, cfg, cmd.ErrOrStderr())

	start, end := traceRange(cmd)
	if _, err := attachTraceDB(s, cfg.TraceDB, start, end); err != nil {
		return err
	}

	monitor := monitoring.NewMonitor().
		WithPortNumber(cfg.MonitorPort).
		WithFrequencies(cfg.FrequencyChoices())
	monitor.RegisterEngine(engine)
	monitor.RegisterSimulator(s)

	url, err := monitor.Listen()
	if err != nil {
		return err
	}

	if cfg.OpenBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	if start, _ := cmd.Flags().GetBool("start"); start {
		s.Start(cfg.ClockFrequency())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, engine, monitor)
}

// serve runs the engine and the monitor until ctx is done or one of them
// fails.
func serve(
	ctx context.Context,
	engine *sim.RealTimeEngine,
	monitor *monitoring.Monitor,
) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(engine.Run)
	g.Go(func() error { return monitor.Serve(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		engine.Terminate()

		return nil
	})

	return g.Wait()
}
