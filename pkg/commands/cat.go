package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/inkpad/pkg/commands/options"
	"tableflip.dev/inkpad/pkg/runner/cat"
)

func addCat(topLevel *cobra.Command) {
	po := &options.PageOptions{}
	co := &options.CatOptions{}

	cmd := &cobra.Command{
		Use:   "cat NAME",
		Short: "Print a document or one of its pages",
		Example: `
inkpad cat note_4242
inkpad cat novel.txt --page 3 --wrap
inkpad cat novel.txt --page 3 --clipboard
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: documentCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, svc, err := loadService()
			if err != nil {
				return err
			}
			c := cat.Cat{
				Service:   svc,
				Name:      args[0],
				Page:      po.Page,
				Wrap:      co.Wrap,
				Clipboard: co.Clipboard,
				Width:     s.Width,
				Height:    s.Height,
				Out:       cmd.OutOrStdout(),
			}
			return c.Do(cmd.Context())
		},
	}

	options.AddPageArgs(cmd, po, 0)
	options.AddCatArgs(cmd, co)
	topLevel.AddCommand(cmd)
}
