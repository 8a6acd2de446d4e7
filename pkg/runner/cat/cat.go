// Package cat prints a document, optionally wrapped the way the panel shows
// it.
package cat

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/document"
)

// copyText is swapped out by tests; the real clipboard needs a desktop.
var copyText = clipboard.WriteAll

type Cat struct {
	Service *app.Service
	Name    string
	// Page is 1-based; zero prints every page.
	Page int
	// Wrap prints each page as the pager lays it out, one block per subpage.
	Wrap bool
	// Clipboard copies the text instead of printing it.
	Clipboard bool
	Width     int
	Height    int
	Out       io.Writer
}

func (c *Cat) Do(_ context.Context) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	name := c.Service.Normalize(c.Name)
	if _, err := c.Service.Persistence.Stat(name); err != nil {
		return fmt.Errorf("cat: %w", err)
	}
	pages, err := c.Service.Pages(name)
	if err != nil {
		return err
	}

	first, last := 0, len(pages)-1
	if c.Page != 0 {
		if c.Page < 1 || c.Page > len(pages) {
			return fmt.Errorf("cat: %s has %d pages, no page %d", name, len(pages), c.Page)
		}
		first, last = c.Page-1, c.Page-1
	}

	var text string
	if c.Wrap {
		text = c.wrapped(pages, first, last)
	} else {
		text = document.Join(pages[first : last+1])
	}

	if c.Clipboard {
		if err := copyText(text); err != nil {
			return fmt.Errorf("cat: clipboard: %w", err)
		}
		_, _ = fmt.Fprintf(out, "copied %d characters of %s\n", len([]rune(text)), name)
		return nil
	}
	_, _ = fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

// wrapped renders pages first..last with a pager-style label per subpage.
func (c *Cat) wrapped(pages []string, first, last int) string {
	g := app.PagedGeometry(c.Width, c.Height)
	var b strings.Builder
	for i := first; i <= last; i++ {
		subs := g.Paginate(pages[i])
		for s, sub := range subs {
			label := fmt.Sprintf("%d/%d", i+1, len(pages))
			if len(subs) > 1 {
				label = fmt.Sprintf("%d.%d/%d", i+1, s+1, len(pages))
			}
			fmt.Fprintf(&b, "-- %s --\n", label)
			for _, line := range sub.Lines {
				b.WriteString(strings.TrimRight(line.String(), "\n"))
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
