// Package options defines shared flag helpers for CLI commands.
package options

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/inkpad/pkg/store"
)

// StoreOptions overrides where documents are kept.
type StoreOptions struct {
	Path      string
	Extension string
}

func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		base.Wrap80("Directory holding the documents. Overrides the path config key."))
	cmd.PersistentFlags().StringVar(&o.Extension, "ext", "",
		base.Wrap80("Document extension. Overrides the extension config key."))
}

// Apply copies the flags that were set onto s. A log file left at its
// default follows the store.
func (o *StoreOptions) Apply(s *store.Settings) {
	if o.Path != "" {
		if s.LogFile == filepath.Join(s.Path, store.LogName) {
			s.LogFile = filepath.Join(o.Path, store.LogName)
		}
		s.Path = o.Path
	}
	if o.Extension != "" {
		s.Extension = o.Extension
		if !strings.HasPrefix(s.Extension, ".") {
			s.Extension = "." + s.Extension
		}
	}
}
