// Package search implements the view and search strategies that turn a note
// collection into a printable text report.
//
// Every strategy returns an empty string when nothing matches; callers treat
// that as "not found".
package search

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/starford/zametki/internal/models"
)

// Strategy maps a note collection to a text report.
type Strategy interface {
	Execute(notes []models.Note) string
}

var (
	_ Strategy = ViewAll{}
	_ Strategy = ViewTitles{}
	_ Strategy = ByID{}
	_ Strategy = ByTitle{}
	_ Strategy = ByDate{}
	_ Strategy = ByKeyword{}
)

const separatorWidth = 40

var (
	heavySeparator = strings.Repeat("=", separatorWidth)
	lightSeparator = strings.Repeat("-", separatorWidth)
)

// ViewAll lists every note in full.
type ViewAll struct {
	Labels Labels
}

// Execute implements Strategy.
func (s ViewAll) Execute(notes []models.Note) string {
	return render(notes, s.Labels, true, heavySeparator)
}

// ViewTitles lists note titles, one per line.
type ViewTitles struct{}

// Execute implements Strategy.
func (ViewTitles) Execute(notes []models.Note) string {
	return strings.Join(lo.Map(notes, func(n models.Note, _ int) string { return n.Title }), "\n")
}

// ByID finds the note with the given id.
type ByID struct {
	ID     int
	Labels Labels
}

// Execute implements Strategy.
func (s ByID) Execute(notes []models.Note) string {
	matched := lo.Filter(notes, func(n models.Note, _ int) bool { return n.ID == s.ID })
	return render(matched, s.Labels, true, heavySeparator)
}

// ByTitle finds notes whose title equals Title exactly (case-sensitive).
type ByTitle struct {
	Title  string
	Labels Labels
}

// Execute implements Strategy.
func (s ByTitle) Execute(notes []models.Note) string {
	matched := lo.Filter(notes, func(n models.Note, _ int) bool { return n.Title == s.Title })
	return render(matched, s.Labels, false, lightSeparator)
}

// ByDate finds notes whose date string equals Date exactly.
type ByDate struct {
	Date   string
	Labels Labels
}

// Execute implements Strategy.
func (s ByDate) Execute(notes []models.Note) string {
	matched := lo.Filter(notes, func(n models.Note, _ int) bool { return n.Date == s.Date })
	return render(matched, s.Labels, false, lightSeparator)
}

// ByKeyword finds notes whose text contains Word as a whitespace-delimited
// word. A note is reported once per occurrence, so a note that contains the
// word twice yields two identical blocks.
type ByKeyword struct {
	Word   string
	Labels Labels
}

// Execute implements Strategy.
func (s ByKeyword) Execute(notes []models.Note) string {
	matched := lo.FlatMap(notes, func(n models.Note, _ int) []models.Note {
		hits := lo.Filter(strings.Fields(n.Text), func(w string, _ int) bool { return w == s.Word })
		return lo.Map(hits, func(string, int) models.Note { return n })
	})
	return render(matched, s.Labels, true, heavySeparator)
}

// render formats one block per note and joins all lines with newlines.
func render(notes []models.Note, labels Labels, withID bool, separator string) string {
	l := labels.orDefault()
	lines := make([]string, 0, len(notes)*5)
	for _, n := range notes {
		if withID {
			lines = append(lines, fmt.Sprintf("%s: %d", l.ID, n.ID))
		}
		lines = append(lines,
			fmt.Sprintf("%s: %s", l.Title, n.Title),
			fmt.Sprintf("%s: \n%s", l.Text, n.Text),
			fmt.Sprintf("%s: %s", l.Date, n.Date),
			separator,
		)
	}
	return strings.Join(lines, "\n")
}
