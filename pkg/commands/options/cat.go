package options

import (
	"github.com/spf13/cobra"
)

// CatOptions
type CatOptions struct {
	Wrap      bool
	Clipboard bool
}

func AddCatArgs(cmd *cobra.Command, o *CatOptions) {
	cmd.Flags().BoolVarP(&o.Wrap, "wrap", "w", false,
		"Print the pages wrapped as the panel shows them.")
	cmd.Flags().BoolVar(&o.Clipboard, "clipboard", false,
		"Copy the text to the clipboard instead of printing it.")
}

// SnapshotOptions
type SnapshotOptions struct {
	Output string
}

func AddSnapshotArgs(cmd *cobra.Command, o *SnapshotOptions) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "snapshot.png",
		"Image to write. The extension picks the format: .png, .bmp or .tiff.")
}
