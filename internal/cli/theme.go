package cli

import (
	"fmt"

	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/spf13/cobra"
)

func addTheme(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "theme [light|dark|system]",
		Short: "Show or set the colour theme",
		Example: `
spectalocks theme
spectalocks theme light
`,
		ValidArgs: themeNames(),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ro.open()
			if err != nil {
				return err
			}
			defer s.close()

			settings := di.Resolve(s.c, app.SettingsKey)
			if len(args) == 1 {
				settings.SelectTheme(entity.ParseTheme(args[0]))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), settings.Theme())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
