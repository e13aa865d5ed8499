package cmd

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/countersim/sim"
	"github.com/sarchlab/countersim/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the counter in real time on a terminal front panel.",
	Long: "`tui` runs the counter on the wall clock and shows its LEDs, " +
		"digit and JK inputs in the terminal. Log output goes to --log-file.",
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().String("log-file", "countersim-tui.log",
		"file that receives log output while the panel is shown")
	tuiCmd.Flags().String("db", "",
		"record the trace into this SQLite database (without .sqlite3)")
	addTraceRangeFlags(tuiCmd)
	tuiCmd.Flags().Duration("refresh", tui.DefaultRefreshInterval,
		"how often the panel redraws")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("db") {
		cfg.TraceDB, _ = cmd.Flags().GetString("db")
	}

	logFile, _ := cmd.Flags().GetString("log-file")

	f, err := tea.LogToFile(logFile, "countersim")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	if cfg.TraceDB != "" {
		sim.UseUniqueIDGenerator()
	}

	engine := sim.NewRealTimeEngine()
	s := buildSimulator(engine, cfg, f)

	start, end := traceRange(cmd)
	if _, err := attachTraceDB(s, cfg.TraceDB, start, end); err != nil {
		return err
	}

	refresh, _ := cmd.Flags().GetDuration("refresh")
	if refresh <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", refresh)
	}

	model := tui.NewModel(s, cfg.FrequencyChoices()).
		WithRefreshInterval(refresh)

	var g errgroup.Group

	g.Go(engine.Run)

	_, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()

	engine.Terminate()

	if err := g.Wait(); err != nil {
		return err
	}

	if runErr != nil {
		if strings.Contains(runErr.Error(), "TTY") ||
			strings.Contains(runErr.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}

		return fmt.Errorf("error running TUI: %w", runErr)
	}

	return nil
}
