package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rally-social/pulse/internal/daemon"
	"github.com/rally-social/pulse/internal/domain"
)

func init() {
	boardCmd.Flags().StringVar(&boardBy, "by", "points", "Ranking: points, creators or joiners")
	boardCmd.Flags().IntVar(&boardLimit, "limit", 10, "Number of entries to show")
	rootCmd.AddCommand(boardCmd)
}

var (
	boardBy    string
	boardLimit int
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"leaderboard", "top"},
	Short:   "Show a leaderboard",
	RunE:    runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	var rows []domain.UserStats
	switch boardBy {
	case "points":
		rows = d.Engine.Leaderboard(boardLimit)
	case "creators":
		rows = d.Engine.TopCreators(boardLimit)
	case "joiners":
		rows = d.Engine.TopJoiners(boardLimit)
	default:
		return fmt.Errorf("unknown ranking %q (want points, creators or joiners)", boardBy)
	}

	if len(rows) == 0 {
		fmt.Println("No users yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tPOINTS\tLEVEL\tCREATED\tJOINED")
	for i, s := range rows {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\n",
			i+1, s.UserID, s.TotalPoints, s.Level, s.ActivitiesCreated, s.ActivitiesJoined)
	}
	return w.Flush()
}
