// Package info reports where inkpad reads its settings and documents from.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/store"
)

type Info struct {
	Settings *store.Settings
	Service  *app.Service
	// Out defaults to color.Output.
	Out io.Writer
}

func (n *Info) Do(_ context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("INKPAD_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "INKPAD_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "INKPAD_CONFIG_PATH env var not set")
	}

	if n.Settings == nil {
		var err error
		n.Settings, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}
	s := n.Settings

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Setting"), bold.Sprint("Value"))
	tbl.AddRow("path", s.Path)
	tbl.AddRow("extension", s.Extension)
	tbl.AddRow("display", fmt.Sprintf("%dx%d", s.Width, s.Height))
	tbl.AddRow("quiet / min refresh", fmt.Sprintf("%v / %v", s.Quiet, s.MinRefresh))
	tbl.AddRow("flush", s.Flush)
	tbl.AddRow("screensaver / sleep", fmt.Sprintf("%v / %v", s.Screensaver, s.Sleep))
	tbl.AddRow("fn hold", s.FnHold)
	tbl.AddRow("log", s.LogFile)
	_, _ = fmt.Fprintln(out, tbl)

	if n.Service == nil {
		return fmt.Errorf("info: no document store")
	}
	docs, err := n.Service.Documents()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\nDocuments: %d\n", len(docs))
	if pos, ok := n.Service.Position(); ok {
		_, _ = fmt.Fprintf(out, "Last edit: %s page %d\n", pos.Name, pos.Page+1)
	}
	return nil
}
