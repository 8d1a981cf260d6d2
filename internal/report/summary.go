package report

import (
	"fmt"
	"strings"

	"github.com/indaco/gitv/internal/tagger"
)

// Summary counts decisions per outcome.
type Summary struct {
	Created       int
	AlreadyTagged int
	WouldCreate   int
	Skipped       int
}

// Add records one decision.
func (s *Summary) Add(o tagger.Outcome) {
	switch o {
	case tagger.Created:
		s.Created++
	case tagger.AlreadyTagged:
		s.AlreadyTagged++
	case tagger.WouldCreate:
		s.WouldCreate++
	case tagger.Skipped:
		s.Skipped++
	}
}

// Total returns the number of eras processed.
func (s Summary) Total() int {
	return s.Created + s.AlreadyTagged + s.WouldCreate + s.Skipped
}

// String renders the non-zero counts, e.g. "3 eras: 1 created, 2 already tagged".
func (s Summary) String() string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(s.Created, "created")
	add(s.AlreadyTagged, "already tagged")
	add(s.WouldCreate, "would be created")
	add(s.Skipped, "skipped")

	noun := "eras"
	if s.Total() == 1 {
		noun = "era"
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0 %s", noun)
	}
	return fmt.Sprintf("%d %s: %s", s.Total(), noun, strings.Join(parts, ", "))
}
