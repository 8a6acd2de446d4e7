package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/inkpad/pkg/commands/options"
	"tableflip.dev/inkpad/pkg/runner/list"
	"tableflip.dev/inkpad/pkg/timeutil"
)

func addList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var since string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List documents, newest first",
		Example: `
inkpad ls
inkpad ls --json
inkpad ls --since 3d
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			_, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			window, err := timeutil.ParseWindow(since)
			if err != nil {
				return oo.HandleError(err)
			}
			l := list.List{Service: svc, JSON: oo.JSON, Since: window, Out: oo.Writer()}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "only documents modified within this window (for example 3d, 1w2d)")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
