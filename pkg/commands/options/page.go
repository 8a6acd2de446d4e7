package options

import (
	"github.com/spf13/cobra"
)

// PageOptions selects part of a document. Both numbers are 1-based.
type PageOptions struct {
	Page    int
	Subpage int
}

func AddPageArgs(cmd *cobra.Command, o *PageOptions, def int) {
	cmd.Flags().IntVarP(&o.Page, "page", "p", def,
		"Page number, starting at 1.")
}

func AddSubpageArgs(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().IntVarP(&o.Subpage, "subpage", "s", 1,
		"Subpage of the page as the pager shows it, starting at 1.")
}
