// Package snapshot rasterizes a document page as the pager would show it.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/display"
)

type Snapshot struct {
	Service *app.Service
	Name    string
	// Page and Subpage are 1-based.
	Page    int
	Subpage int
	// Output is the image path; the extension picks png, bmp or tiff.
	Output string
	Width  int
	Height int
}

func (s *Snapshot) Do(_ context.Context) error {
	encode, err := encoderFor(s.Output)
	if err != nil {
		return err
	}
	f, err := s.Frame()
	if err != nil {
		return err
	}

	out, err := os.Create(s.Output)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := encode(out, f.Image()); err != nil {
		_ = out.Close()
		return fmt.Errorf("snapshot: encode %s: %w", s.Output, err)
	}
	return out.Close()
}

// Frame composes the pager frame for the selected page and subpage.
func (s *Snapshot) Frame() (*display.Frame, error) {
	name := s.Service.Normalize(s.Name)
	if _, err := s.Service.Persistence.Stat(name); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	pages, err := s.Service.Pages(name)
	if err != nil {
		return nil, err
	}
	page, sub := max(s.Page, 1), max(s.Subpage, 1)
	if page > len(pages) {
		return nil, fmt.Errorf("snapshot: %s has %d pages, no page %d", name, len(pages), page)
	}
	subs := app.PagedGeometry(s.Width, s.Height).Paginate(pages[page-1])
	if sub > len(subs) {
		return nil, fmt.Errorf("snapshot: page %d has %d subpages, no subpage %d", page, len(subs), sub)
	}

	f := display.NewFrame(s.Width, s.Height)
	app.DrawPaged(f, app.View{Pages: pages, Page: page - 1, Subpage: sub - 1}, "")
	return f, nil
}

type encoder func(io.Writer, image.Image) error

func encoderFor(path string) (encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("snapshot: unsupported image type %q (want .png, .bmp or .tiff)", path)
}
