package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rally-social/pulse/internal/daemon"
)

func init() {
	badgesCmd.Flags().BoolVar(&badgesAll, "all", false, "Show the full achievement catalog instead")
	rootCmd.AddCommand(badgesCmd)
}

var badgesAll bool

var badgesCmd = &cobra.Command{
	Use:   "badges [user-id]",
	Short: "List a user's unlocked achievements",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if badgesAll || len(args) == 0 {
		fmt.Fprintln(w, "KEY\tTITLE\tCATEGORY\tBONUS")
		for _, def := range d.Engine.Catalog() {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\n", def.Key, def.Icon, def.Title, def.Category, def.Bonus)
		}
		return w.Flush()
	}

	unlocked := d.Engine.GetUserAchievements(args[0])
	if len(unlocked) == 0 {
		fmt.Println("No achievements unlocked yet.")
		return nil
	}

	fmt.Fprintln(w, "UNLOCKED\tTITLE\tCATEGORY")
	for _, a := range unlocked {
		fmt.Fprintf(w, "%s\t%s %s\t%s\n",
			a.UnlockedAt.Format("2006-01-02"), a.Icon, a.Title, a.Category)
	}
	return w.Flush()
}
