package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/countersim/kmap"
)

var kmapCmd = &cobra.Command{
	Use:   "kmap",
	Short: "Print the JK excitation K-maps of the counter.",
	Long: "`kmap` prints the six excitation K-maps of the counter. " +
		"`kmap --answers sheet.yml` grades an answer sheet against them.",
	RunE: runKMap,
}

func init() {
	rootCmd.AddCommand(kmapCmd)
	kmapCmd.Flags().String("answers", "", "YAML answer sheet to grade")
}

func runKMap(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	answersPath, _ := cmd.Flags().GetString("answers")
	if answersPath == "" {
		for _, m := range kmap.ExcitationMaps() {
			fmt.Fprintln(out, m)
		}

		return nil
	}

	f, err := os.Open(answersPath)
	if err != nil {
		return err
	}
	defer f.Close()

	answers, err := kmap.LoadSheet(f)
	if err != nil {
		return fmt.Errorf("%s: %w", answersPath, err)
	}

	results, err := kmap.GradeSheet(answers)
	if err != nil {
		return fmt.Errorf("%s: %w", answersPath, err)
	}

	return printGrades(out, kmap.ExcitationMaps(), results)
}

func printGrades(
	w io.Writer,
	maps []*kmap.Map,
	results map[string]kmap.Result,
) error {
	total, correct := 0, 0

	for _, m := range maps {
		res := results[m.Name]
		cells := res.Correct + res.Incorrect + res.Missing
		total += cells
		correct += res.Correct

		fmt.Fprintf(w, "%s: %d/%d correct, %d incorrect, %d empty\n",
			m.Name, res.Correct, cells, res.Incorrect, res.Missing)

		if res.Perfect() {
			continue
		}

		for _, row := range res.Verdicts {
			marks := make([]string, len(row))
			for i, v := range row {
				marks[i] = verdictMark(v)
			}

			fmt.Fprintf(w, "  %s\n", strings.Join(marks, " "))
		}
	}

	_, err := fmt.Fprintf(w, "Total: %d/%d\n", correct, total)

	return err
}

func verdictMark(v kmap.Verdict) string {
	switch v {
	case kmap.Correct:
		return "+"
	case kmap.Incorrect:
		return "x"
	default:
		return "."
	}
}
