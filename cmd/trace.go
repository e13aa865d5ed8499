package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/datarecording"
	"github.com/sarchlab/countersim/sim"
	"github.com/sarchlab/countersim/tracing"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Run the counter for a number of clock edges and print every transition.",
	Long: "`trace --edges N` runs the counter on a virtual clock for N rising " +
		"edges and prints the state table. With --db the transitions and " +
		"clock levels are also recorded into a SQLite database, and " +
		"`trace --read FILE` prints a recorded database again.",
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Int("edges", 14, "number of rising edges to run")
	traceCmd.Flags().Float64("frequency", 0,
		"clock frequency in Hz (default from config)")
	traceCmd.Flags().String("db", "",
		"record the trace into this SQLite database (without .sqlite3)")
	traceCmd.Flags().Bool("counts", false,
		"print edge and visit counts after the table")
	traceCmd.Flags().String("read", "",
		"print the transitions recorded in this SQLite file instead of running")
	addTraceRangeFlags(traceCmd)
}

func runTrace(cmd *cobra.Command, _ []string) error {
	if readPath, _ := cmd.Flags().GetString("read"); readPath != "" {
		return readTrace(cmd.Context(), cmd.OutOrStdout(), readPath)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	edges, _ := cmd.Flags().GetInt("edges")
	if edges < 0 {
		return fmt.Errorf("edges must not be negative, got %d", edges)
	}

	if cmd.Flags().Changed("frequency") {
		cfg.Frequency, _ = cmd.Flags().GetFloat64("frequency")
		if err := counter.ValidateFrequency(cfg.ClockFrequency()); err != nil {
			return err
		}
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.TraceDB
	}

	engine := sim.NewSerialEngine()
	s := buildSimulator(engine, cfg, cmd.ErrOrStderr())

	transitions := tracing.NewTransitionLog()
	tracing.CollectTrace(s, transitions)

	counts := tracing.NewCountTracer()
	tracing.CollectTrace(s, counts)

	start, end := traceRange(cmd)

	dbTracer, err := attachTraceDB(s, dbPath, start, end)
	if err != nil {
		return err
	}

	if err := runEdges(engine, s, cfg.ClockFrequency(), edges); err != nil {
		return err
	}

	if dbTracer != nil {
		if err := dbTracer.Terminate(); err != nil {
			return fmt.Errorf("trace database: %w", err)
		}
	}

	if err := printTransitions(cmd.OutOrStdout(), transitions.Transitions()); err != nil {
		return err
	}

	if printCounts, _ := cmd.Flags().GetBool("counts"); printCounts {
		return printCountSummary(cmd.OutOrStdout(), counts)
	}

	return nil
}

// runEdges runs the clock until the given number of rising edges happened,
// and stops it before the following falling edge.
func runEdges(
	engine *sim.SerialEngine,
	s *counter.Simulator,
	freq sim.Freq,
	edges int,
) error {
	if edges == 0 {
		return nil
	}

	s.Start(freq)

	// Rising edge k happens at (2k-1) half periods.
	end := freq.HalfPeriod() * sim.VTimeInSec(2*float64(edges)-0.5)
	if err := engine.RunUntil(end); err != nil {
		return err
	}

	s.Stop()

	return nil
}

// readTrace prints the transitions and the clock level count stored in a
// trace database.
func readTrace(ctx context.Context, w io.Writer, filename string) error {
	// Opening a missing file would create an empty database.
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("trace database: %w", err)
	}

	reader, err := datarecording.NewReader(filename)
	if err != nil {
		return fmt.Errorf("trace database: %w", err)
	}
	defer reader.Close()

	err = reader.MapTable(tracing.TransitionTable, tracing.TransitionEntry{})
	if err != nil {
		return err
	}

	err = reader.MapTable(tracing.LevelTable, tracing.LevelEntry{})
	if err != nil {
		return err
	}

	rows, _, err := reader.Query(ctx, tracing.TransitionTable,
		datarecording.QueryParams{OrderBy: "Time"})
	if err != nil {
		return err
	}

	transitions := make([]counter.Transition, 0, len(rows))

	for _, row := range rows {
		t, err := row.(*tracing.TransitionEntry).Transition()
		if err != nil {
			return fmt.Errorf("trace database: %w", err)
		}

		transitions = append(transitions, t)
	}

	_, levels, err := reader.Query(ctx, tracing.LevelTable,
		datarecording.QueryParams{Limit: 1})
	if err != nil {
		return err
	}

	_, rising, err := reader.Query(ctx, tracing.LevelTable,
		datarecording.QueryParams{
			Where: "Edge = ?",
			Args:  []any{counter.Rising.String()},
			Limit: 1,
		})
	if err != nil {
		return err
	}

	if err := printTransitions(w, transitions); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\nClock level changes: %d, rising edges: %d\n",
		levels, rising)

	return err
}

func printTransitions(w io.Writer, transitions []counter.Transition) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "TIME\tCAUSE\tFROM\tTO\tABC\tJA\tKA\tJB\tKB\tJC\tKC")

	for _, t := range transitions {
		e := t.Excitation
		fmt.Fprintf(tw, "%.4f\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			t.Time, t.Cause, t.From, t.To, t.Bits,
			e.A.J, e.A.K, e.B.J, e.B.K, e.C.J, e.C.K)
	}

	return tw.Flush()
}

func printCountSummary(w io.Writer, counts *tracing.CountTracer) error {
	fmt.Fprintf(w, "\nRising edges: %d, falling edges: %d\n",
		counts.Edges(counter.Rising), counts.Edges(counter.Falling))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tVISITS")

	for d := 0; d <= counter.Modulus; d++ {
		fmt.Fprintf(tw, "%d\t%d\n", d, counts.Visits(d))
	}

	return tw.Flush()
}
