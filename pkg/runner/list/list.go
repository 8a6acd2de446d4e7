// Package list prints the stored documents as a table.
package list

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/timeutil"
)

const previewWidth = 40

type List struct {
	Service *app.Service
	JSON    bool
	// Since keeps only documents modified within the window; zero keeps all.
	Since time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Out defaults to color.Output.
	Out io.Writer
}

type jsonSummary struct {
	Name     string `json:"name"`
	Pages    int    `json:"pages"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	Preview  string `json:"preview,omitempty"`
}

func (l *List) Do(_ context.Context) error {
	out := l.Out
	if out == nil {
		out = color.Output
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	sums, err := l.Service.Report()
	if err != nil {
		return err
	}
	if l.Since > 0 {
		cutoff := now().Add(-l.Since)
		kept := sums[:0]
		for _, s := range sums {
			if !s.Modified.Before(cutoff) {
				kept = append(kept, s)
			}
		}
		sums = kept
	}

	if l.JSON {
		rows := make([]jsonSummary, 0, len(sums))
		for _, s := range sums {
			rows = append(rows, jsonSummary{
				Name:     s.Name,
				Pages:    s.Pages,
				Size:     s.Size,
				Modified: s.Modified.UTC().Format("2006-01-02T15:04:05Z"),
				Preview:  s.Preview,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(sums) == 0 {
		_, _ = fmt.Fprintln(out, "no documents")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Name"), bold.Sprint("Pages"), bold.Sprint("Size"), bold.Sprint("Modified"), bold.Sprint("Preview"))
	for _, s := range sums {
		tbl.AddRow(
			s.Name,
			strconv.Itoa(s.Pages),
			strconv.FormatInt(s.Size, 10),
			faint.Sprint(timeutil.Ago(now(), s.Modified)),
			faint.Sprint(truncate.StringWithTail(s.Preview, previewWidth, "…")),
		)
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
