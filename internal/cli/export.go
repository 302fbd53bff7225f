package cli

import (
	"fmt"

	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/sadopc/spectalocks/internal/export"
	"github.com/spf13/cobra"
)

// ExportOptions
type ExportOptions struct {
	Format string
	Out    string
}

func addExport(topLevel *cobra.Command, ro *RootOptions) {
	eo := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write active locks and statistics to CSV or JSON",
		Example: `
spectalocks export --format json --out locks.json
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if eo.Format != "csv" && eo.Format != "json" {
				return fmt.Errorf("unknown format %q, want csv or json", eo.Format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.open()
			if err != nil {
				return err
			}
			defer s.close()

			st := di.Resolve(s.c, app.StoreKey)
			locks, err := st.ListLocks()
			if err != nil {
				return err
			}
			stats, err := st.ListStats()
			if err != nil {
				return err
			}
			now := di.Resolve(s.c, app.ClockKey).Now()

			path := eo.Out
			if path == "" {
				path = fmt.Sprintf("spectalocks-export-%s.%s", now.Format("2006-01-02"), eo.Format)
			}
			if eo.Format == "json" {
				err = export.ToJSON(locks, stats, now, path)
			} else {
				err = export.ToCSV(locks, stats, path)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green.Sprint("Exported to"), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&eo.Format, "format", "f", "csv", "Output format: csv or json.")
	cmd.Flags().StringVarP(&eo.Out, "out", "o", "", "Output file (default: spectalocks-export-<date>.<format>).")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
