package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
	"github.com/vovakirdan/campus-runner/internal/storage"
)

var (
	flagLimit  int
	flagPlayer string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best recorded runs",
	Long: `Display the best runs from the run history.

Examples:
  campus scores
  campus scores --limit 25
  campus scores --player ada`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Only show runs of this player")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer store.Close()

	var runs []storage.Run
	if flagPlayer != "" {
		runs, err = store.PlayerRuns(flagPlayer, flagLimit)
	} else {
		runs, err = store.TopRuns(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Campus Runner - Best Runs")
	fmt.Fprintln(out)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'campus play' to set the first record!")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-12s  %-10s  %-8s  %-3s  %-4s  %s\n", "Rank", "Player", "Major", "Score", "Sem", "Cont", "Date")
	fmt.Fprintf(out, "  %-4s  %-12s  %-10s  %-8s  %-3s  %-4s  %s\n", "----", "------", "-----", "-----", "---", "----", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %s  %-10s  %-8d  %-3d  %-4d  %s\n",
			i+1, playerCell(r.Player), sim.Character(r.Character).Title(), r.Score, r.Semester, r.Continues,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	st, err := store.Stats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Runs: %d  Best: %d  Average: %.0f  Top semester: %d\n",
		st.Runs, st.HighScore, st.AvgScore, st.BestSemester)
	return nil
}

// playerCell pads or truncates a player name to the column width. SSH user
// names may contain wide runes, so widths are measured in terminal cells.
func playerCell(name string) string {
	const width = 12
	return runewidth.FillRight(runewidth.Truncate(name, width, "…"), width)
}
