package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uitable"
	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/spf13/cobra"
)

type lockJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Remaining string    `json:"remaining"`
	Progress  float64   `json:"progress"`
}

type listJSON struct {
	Locks   []lockJSON `json:"locks"`
	Pending int        `json:"pending_unlocks"`
}

func addList(topLevel *cobra.Command, ro *RootOptions) {
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active locks and any that are ready to unlock",
		Args:    cobra.NoArgs,
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

			locks, err := di.Resolve(s.c, app.StoreKey).ListLocks()
			if err != nil {
				return oo.HandleError(out, err)
			}
			now := di.Resolve(s.c, app.ClockKey).Now()
			item := derive.Dashboard(locks, now, di.Resolve(s.c, app.LocalizationKey))
			pending := len(locks) - len(item.Locks)

			if oo.JSON {
				res := listJSON{Locks: []lockJSON{}, Pending: pending}
				for _, l := range item.Locks {
					res.Locks = append(res.Locks, lockJSON{
						ID:        l.ID,
						Name:      l.Name,
						Category:  string(l.Category.Type),
						Start:     l.StartDate,
						End:       l.EndDate,
						Remaining: l.RemainingLabel,
						Progress:  l.Progress,
					})
				}
				return writeJSON(out, res)
			}

			printLocks(out, item, pending)
			return nil
		},
	}
	AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func printLocks(w io.Writer, item derive.DashboardItem, pending int) {
	_, _ = bold.Fprintln(w, item.Title)
	if len(item.Locks) == 0 {
		_, _ = faint.Fprintln(w, item.EmptyHint)
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 40
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Category"),
			bold.Sprint("Ends"), bold.Sprint("Remaining"), bold.Sprint("Progress"))
		for _, g := range derive.GroupByCategory(item.Locks) {
			for _, l := range g.Locks {
				tbl.AddRow(
					faint.Sprint(shortID(l.ID)),
					l.Name,
					derive.Glyph(g.Category.Type)+" "+g.Category.Name,
					l.EndDate.Local().Format(displayLayout),
					l.RemainingLabel,
					progressBar(l.Progress),
				)
			}
		}
		_, _ = fmt.Fprintln(w, tbl)
	}

	if u := item.Unlock; u != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = yellow.Fprintln(w, "🔓 "+u.Title)
		_, _ = fmt.Fprintln(w, u.Message)
		_, _ = faint.Fprintf(w, "spectalocks unlock %s --bought | --skipped\n", shortID(u.LockID))
		if pending > 1 {
			_, _ = faint.Fprintf(w, "%d more waiting\n", pending-1)
		}
	}
}
