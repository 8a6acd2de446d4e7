package app

import (
	"strings"
	"time"
)

// Summary describes one stored document for listings.
type Summary struct {
	Name     string
	Pages    int
	Size     int64
	Modified time.Time
	// Preview is the first non-blank line of the document.
	Preview string
}

// Report summarizes every document, newest first.
func (s *Service) Report() ([]Summary, error) {
	names, err := s.Documents()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(names))
	for _, name := range names {
		sum, err := s.Summarize(name)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// Summarize describes a single document.
func (s *Service) Summarize(name string) (Summary, error) {
	if s.Persistence == nil {
		return Summary{}, errNoPersistence
	}
	info, err := s.Persistence.Stat(name)
	if err != nil {
		return Summary{}, err
	}
	pages, err := s.Pages(name)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Name:     name,
		Pages:    len(pages),
		Size:     info.Size,
		Modified: info.Modified,
		Preview:  preview(pages),
	}, nil
}

func preview(pages []string) string {
	for _, p := range pages {
		for _, line := range strings.Split(p, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
	}
	return ""
}
