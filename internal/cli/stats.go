package cli

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/spf13/cobra"
)

type statJSON struct {
	Category string  `json:"category"`
	Bought   int     `json:"bought"`
	Skipped  int     `json:"skipped"`
	Ratio    float64 `json:"bought_ratio"`
}

func addStats(topLevel *cobra.Command, ro *RootOptions) {
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how often each category ended in a purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s, err := ro.open()
			if err != nil {
				return oo.HandleError(out, err)
			}
			defer s.close()
			if err := s.localized(cmd.Context()); err != nil {
				return oo.HandleError(out, err)
			}

			stats, err := di.Resolve(s.c, app.StoreKey).ListStats()
			if err != nil {
				return oo.HandleError(out, err)
			}
			loc := di.Resolve(s.c, app.LocalizationKey)
			item := derive.Statistics(stats, loc)

			if oo.JSON {
				res := make([]statJSON, 0, len(item.GraphItems))
				for _, g := range item.GraphItems {
					res = append(res, statJSON{
						Category: string(g.Category),
						Bought:   g.Bought,
						Skipped:  g.Skipped,
						Ratio:    g.Percentage,
					})
				}
				return writeJSON(out, res)
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow("", bold.Sprint("Category"), bold.Sprint("Bought"), bold.Sprint("Skipped"), bold.Sprint("Share"))
			for _, g := range item.GraphItems {
				tbl.AddRow(g.FooterTitle, loc.Text("dashboard.lock.category."+string(g.Category)),
					g.Bought, g.Skipped, progressBar(g.Percentage))
			}

			_, _ = bold.Fprintln(out, item.Title)
			_, _ = fmt.Fprintln(out, tbl)
			_, _ = fmt.Fprintln(out)
			_, _ = faint.Fprintln(out, item.HintTitle)
			_, _ = faint.Fprintln(out, item.Hint)
			return nil
		},
	}
	AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
