package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/inkpad/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the settings in effect and the document store",
		Example: `
inkpad info
INKPAD_CONFIG_PATH=/etc/inkpad inkpad info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, svc, err := loadService()
			if err != nil {
				return err
			}
			n := info.Info{Settings: s, Service: svc, Out: cmd.OutOrStdout()}
			return n.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
