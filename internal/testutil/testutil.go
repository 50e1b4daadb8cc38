// Package testutil provides shared test helpers for setting up note stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/zametki/internal/models"
	"github.com/starford/zametki/internal/noteservice"
	"github.com/starford/zametki/internal/state"
	"github.com/starford/zametki/internal/storage"
)

// TestStore creates a state manager over a store file in a temp directory.
// It returns the manager and the file path.
func TestStore(t *testing.T) (*state.Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "notes.json")
	codec, err := storage.OpenJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	return state.New(codec), path
}

// TestService creates a note service seeded with notes.
func TestService(t *testing.T, notes []models.Note, opts ...noteservice.Option) (*noteservice.Service, string) {
	t.Helper()
	m, path := TestStore(t)
	if len(notes) > 0 {
		if err := m.SaveNotes(notes); err != nil {
			t.Fatal(err)
		}
	}
	return noteservice.NewService(m, opts...), path
}

// SampleNotes returns the two-note collection used across package tests.
func SampleNotes() []models.Note {
	return []models.Note{
		{ID: 1, Title: "A", Text: "hello world", Date: "01.01.2024 10:00"},
		{ID: 2, Title: "B", Text: "world", Date: "02.01.2024 11:00"},
	}
}
