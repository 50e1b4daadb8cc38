// Package models defines the domain types for Zametki.
package models

import (
	"time"

	"github.com/samber/lo"
)

// DateLayout is the persisted note date format (DD.MM.YYYY HH:MM).
const DateLayout = "02.01.2006 15:04"

// Note is a single user-authored note.
type Note struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Date  string `json:"date"`
}

// NoteOption customises a Note built by New.
type NoteOption func(*Note)

// WithDate sets the note date. An empty value keeps the creation-time default.
func WithDate(date string) NoteOption {
	return func(n *Note) {
		if date != "" {
			n.Date = date
		}
	}
}

// New builds a note. Title and text are not validated here.
func New(id int, title, text string, opts ...NoteOption) Note {
	n := Note{
		ID:    id,
		Title: title,
		Text:  text,
		Date:  time.Now().Format(DateLayout),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// NextID returns max(existing ids)+1, or 1 for an empty collection.
// Gaps in the sequence are never filled.
func NextID(notes []Note) int {
	if len(notes) == 0 {
		return 1
	}
	return lo.Max(lo.Map(notes, func(n Note, _ int) int { return n.ID })) + 1
}
