package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/inkpad/pkg/commands/options"
	"tableflip.dev/inkpad/pkg/runner/snapshot"
)

func addSnapshot(topLevel *cobra.Command) {
	po := &options.PageOptions{}
	sn := &options.SnapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot NAME",
		Short: "Render a page as the panel would show it",
		Example: `
inkpad snapshot novel.txt --page 2 -o page2.png
inkpad snapshot novel.txt --page 2 --subpage 3 -o page2-3.bmp
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: documentCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, svc, err := loadService()
			if err != nil {
				return err
			}
			sh := snapshot.Snapshot{
				Service: svc,
				Name:    args[0],
				Page:    po.Page,
				Subpage: po.Subpage,
				Output:  sn.Output,
				Width:   s.Width,
				Height:  s.Height,
			}
			if err := sh.Do(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "wrote", sn.Output)
			return nil
		},
	}

	options.AddPageArgs(cmd, po, 1)
	options.AddSubpageArgs(cmd, po)
	options.AddSnapshotArgs(cmd, sn)
	topLevel.AddCommand(cmd)
}
