package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/commands/options"
	"tableflip.dev/inkpad/pkg/store"
)

var (
	so = &options.StoreOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "inkpad",
		Short: base.Wrap80("A distraction-free writing device, simulated in the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddStoreArgs(cmd, so)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addRun(topLevel)
	addList(topLevel)
	addCat(topLevel)
	addSnapshot(topLevel)
	addKey(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// loadSettings reads the config and applies the global flags.
func loadSettings() (*store.Settings, error) {
	s, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	so.Apply(s)
	return s, nil
}

// loadService opens the document store named by the settings.
func loadService() (*store.Settings, *app.Service, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(s)
	if err != nil {
		return nil, nil, err
	}
	return s, &app.Service{Persistence: p, Ext: s.Extension}, nil
}
