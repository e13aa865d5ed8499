package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/sarchlab/countersim/config"
	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/datarecording"
	"github.com/sarchlab/countersim/sim"
	"github.com/sarchlab/countersim/tracing"
)

type engine interface {
	sim.Engine
	counter.Scheduler
}

// buildSimulator creates the counter on the engine and attaches the event
// logger when asked for.
func buildSimulator(
	e engine,
	cfg config.Config,
	logOutput io.Writer,
) *counter.Simulator {
	if cfg.LogEvents {
		e.AcceptHook(sim.NewEventLogger(log.New(logOutput, "", 0)))
	}

	return counter.MakeBuilder().
		WithEngine(e).
		WithFrequency(cfg.ClockFrequency()).
		WithPulseWidth(sim.VTimeInSec(cfg.PulseWidth)).
		Build("Counter")
}

func addTraceRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("trace-start", 0,
		"only record changes from this simulated time on, in seconds")
	cmd.Flags().Float64("trace-end", 0,
		"only record changes up to this simulated time, in seconds")
}

// traceRange reads the recording window. Zero leaves a side open.
func traceRange(cmd *cobra.Command) (start, end sim.VTimeInSec) {
	s, _ := cmd.Flags().GetFloat64("trace-start")
	e, _ := cmd.Flags().GetFloat64("trace-end")

	return sim.VTimeInSec(s), sim.VTimeInSec(e)
}

// attachTraceDB records the simulator into a SQLite database, limited to the
// changes between start and end. An empty path disables recording.
func attachTraceDB(
	s *counter.Simulator,
	path string,
	start, end sim.VTimeInSec,
) (*tracing.DBTracer, error) {
	if path == "" {
		return nil, nil
	}

	recorder, err := datarecording.New(path)
	if err != nil {
		return nil, fmt.Errorf("trace database: %w", err)
	}

	tracer, err := tracing.NewDBTracer(recorder)
	if err != nil {
		return nil, fmt.Errorf("trace database: %w", err)
	}

	tracer.SetTimeRange(start, end)
	tracing.CollectTrace(s, tracer)

	return tracer, nil
}
