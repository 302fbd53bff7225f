package cli

import (
	"fmt"
	"strings"

	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	Category string
	Until    string
}

func addAdd(topLevel *cobra.Command, ro *RootOptions) {
	ao := &AddOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Lock a purchase until a date",
		Example: `
spectalocks add "noise cancelling headphones" --category gadget --until 2030-01-02T15:04
spectalocks add bike -c transportation -u 30d
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.open()
			if err != nil {
				return err
			}
			defer s.close()
			if err := s.localized(cmd.Context()); err != nil {
				return err
			}

			now := di.Resolve(s.c, app.ClockKey).Now()
			draft := derive.LockDraft{Name: strings.TrimSpace(strings.Join(args, " "))}
			if ao.Until != "" {
				end, err := parseUntil(ao.Until, now)
				if err != nil {
					return err
				}
				draft.EndDate = &end
			}
			if ao.Category != "" {
				c := entity.Category(strings.ToLower(ao.Category))
				draft.Category = &c
			}

			dash := di.Resolve(s.c, app.DashboardKey)
			defer dash.Close()
			l, err := dash.AddLockChecked(draft)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s until %s %s\n",
				green.Sprint("Locked"), l.Name, l.EndDate.Local().Format(displayLayout), faint.Sprint(shortID(l.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&ao.Category, "category", "c", string(entity.Other),
		"Category: "+strings.Join(categoryNames(), ", ")+".")
	cmd.Flags().StringVarP(&ao.Until, "until", "u", "",
		"When the lock ends: a date, a date and time, or a duration such as 72h or 30d.")
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return categoryNames(), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
