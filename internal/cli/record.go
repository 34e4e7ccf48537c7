package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rally-social/pulse/internal/daemon"
)

func init() {
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record <created|joined> <user-id> <activity-id>",
	Short: "Record an activity event for a user",
	Long: `Record an activity event directly against the local database.
Duplicate events for the same user and activity are ignored.`,
	Args: cobra.ExactArgs(3),
	RunE: runRecord,
}

func runRecord(cmd *cobra.Command, args []string) error {
	kind, userID, activityID := args[0], args[1], args[2]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	switch kind {
	case "created":
		err = d.Engine.OnActivityCreated(userID, activityID)
	case "joined":
		err = d.Engine.OnActivityJoined(userID, activityID)
	default:
		return fmt.Errorf("unknown event kind %q (want created or joined)", kind)
	}
	if err != nil {
		return err
	}

	stats, err := d.Engine.GetUserStats(userID)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s for %s: %d points, level %d, streak %d\n",
		kind, userID, stats.TotalPoints, stats.Level, stats.CurrentStreak)
	return nil
}
