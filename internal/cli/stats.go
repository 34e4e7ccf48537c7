package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rally-social/pulse/internal/app/engagement"
	"github.com/rally-social/pulse/internal/daemon"
)

func init() {
	statsCmd.Flags().IntVar(&statsHistory, "history", 0, "Also show the last N points entries")
	rootCmd.AddCommand(statsCmd)
}

var statsHistory int

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Show a user's engagement stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	stats, err := d.Engine.GetUserStats(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "User\t%s\n", stats.UserID)
	fmt.Fprintf(w, "Points\t%d\n", stats.TotalPoints)
	fmt.Fprintf(w, "Level\t%d (%d to next)\n",
		stats.Level, engagement.PointsToNextLevel(stats.TotalPoints, stats.Level))
	fmt.Fprintf(w, "Created\t%d\n", stats.ActivitiesCreated)
	fmt.Fprintf(w, "Joined\t%d\n", stats.ActivitiesJoined)
	fmt.Fprintf(w, "Streak\t%d (longest %d)\n", stats.CurrentStreak, stats.LongestStreak)
	if err := w.Flush(); err != nil {
		return err
	}

	if statsHistory <= 0 {
		return nil
	}

	entries, err := d.Engine.PointsHistory(args[0], statsHistory)
	if err != nil {
		return err
	}
	fmt.Println()
	hw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(hw, "WHEN\tPOINTS\tREASON")
	for _, e := range entries {
		fmt.Fprintf(hw, "%s\t%+d\t%s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Points, e.Reason)
	}
	return hw.Flush()
}
