package cli

import (
	"fmt"

	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/spf13/cobra"
)

func addRemove(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a lock without counting it",
		Example: `
spectalocks remove 3f2a9c1d
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.open()
			if err != nil {
				return err
			}
			defer s.close()

			l, err := findLock(di.Resolve(s.c, app.StoreKey), args[0])
			if err != nil {
				return err
			}
			dash := di.Resolve(s.c, app.DashboardKey)
			defer dash.Close()
			dash.RemoveLock(l.ID)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green.Sprint("Removed"), l.Name)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

// UnlockOptions
type UnlockOptions struct {
	Bought  bool
	Skipped bool
}

func addUnlock(topLevel *cobra.Command, ro *RootOptions) {
	uo := &UnlockOptions{}

	cmd := &cobra.Command{
		Use:   "unlock <id>",
		Short: "Resolve an expired lock as bought or skipped",
		Example: `
spectalocks unlock 3f2a9c1d --skipped
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.open()
			if err != nil {
				return err
			}
			defer s.close()

			l, err := findLock(di.Resolve(s.c, app.StoreKey), args[0])
			if err != nil {
				return err
			}
			now := di.Resolve(s.c, app.ClockKey).Now()
			if l.Remaining(now) > 0 {
				return fmt.Errorf("%s is locked until %s", l.Name, l.EndDate.Local().Format(displayLayout))
			}

			dash := di.Resolve(s.c, app.DashboardKey)
			defer dash.Close()
			dash.Unlock(derive.Unlock{LockID: l.ID, Name: l.Name, Category: l.Category}, uo.Bought)

			verb := "skipped"
			if uo.Bought {
				verb = "bought"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s as %s\n", green.Sprint("Resolved"), l.Name, verb)
			return nil
		},
	}

	cmd.Flags().BoolVar(&uo.Bought, "bought", false, "The purchase was made.")
	cmd.Flags().BoolVar(&uo.Skipped, "skipped", false, "The urge passed.")
	cmd.MarkFlagsMutuallyExclusive("bought", "skipped")
	cmd.MarkFlagsOneRequired("bought", "skipped")

	topLevel.AddCommand(cmd)
}
