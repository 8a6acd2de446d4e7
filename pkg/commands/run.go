package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/inkpad/pkg/runner/run"
)

func addRun(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the device in the terminal simulator",
		Long: `Run boots the writing device with the terminal standing in for the
e-ink panel and keyboard. Refreshes take as long as they would on the
panel. Ctrl+J types Shift+Enter, F10 holds or releases Fn, and Ctrl+C
powers the device off.`,
		Example: `
inkpad run
inkpad run --path ~/Documents/drafts
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, svc, err := loadService()
			if err != nil {
				return err
			}
			r := run.Run{Settings: s, Persistence: svc.Persistence}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
