package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rally-social/pulse/internal/daemon"
	"github.com/rally-social/pulse/internal/domain"
)

func init() {
	awardCmd.Flags().StringVar(&awardNote, "note", "", "Optional note stored with the grant")
	rootCmd.AddCommand(awardCmd)
}

var awardNote string

var awardCmd = &cobra.Command{
	Use:   "award <user-id> <points>",
	Short: "Manually award points to a user",
	Long: `Manually award points outside the normal event flow, e.g. for
promotions or support credits. The grant is recorded in the ledger and
may trigger level-ups and achievement unlocks like any other.`,
	Args: cobra.ExactArgs(2),
	RunE: runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	points, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || points <= 0 {
		return fmt.Errorf("points must be a positive integer")
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	var metadata map[string]string
	if awardNote != "" {
		metadata = map[string]string{"note": awardNote}
	}
	if err := d.Engine.AwardPoints(args[0], points, domain.ReasonManualGrant, metadata); err != nil {
		return err
	}

	stats, err := d.Engine.GetUserStats(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Awarded %d points to %s: now %d points, level %d\n",
		points, args[0], stats.TotalPoints, stats.Level)
	return nil
}
