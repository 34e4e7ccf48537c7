package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rally-social/pulse/internal/app/engagement"
)

func init() {
	rootCmd.AddCommand(levelsCmd)
}

var levelsCmd = &cobra.Command{
	Use:   "levels [up-to]",
	Short: "Show the level threshold table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	upTo := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("up-to must be a positive integer")
		}
		upTo = n
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tPOINTS REQUIRED")
	for level := 1; level <= upTo; level++ {
		fmt.Fprintf(w, "%d\t%d\n", level, engagement.PointsForLevel(level))
	}
	return w.Flush()
}
