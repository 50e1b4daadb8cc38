// Package state is the single access point for loading and saving the note
// collection. A Manager is built once at startup and injected into callers.
package state

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/zametki/internal/models"
	"github.com/starford/zametki/internal/storage"
)

// Codec reads and writes the persisted record sequence.
type Codec interface {
	ReadData() ([]storage.Record, error)
	WriteData(records []storage.Record) error
	Path() string
}

var _ Codec = (*storage.JSON)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// Manager loads and saves the whole collection through a Codec.
type Manager struct {
	codec  Codec
	logger *slog.Logger

	// mu serialises read-modify-write cycles issued through Append.
	mu sync.Mutex
}

// New creates a Manager bound to codec. The storage location is fixed for the
// lifetime of the Manager.
func New(codec Codec, opts ...Option) *Manager {
	m := &Manager{
		codec:  codec,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the configured store location.
func (m *Manager) Path() string {
	return m.codec.Path()
}

// LoadNotes returns a fresh copy of the stored collection in file order.
// A malformed record aborts the load.
func (m *Manager) LoadNotes() ([]models.Note, error) {
	records, err := m.codec.ReadData()
	if err != nil {
		return nil, fmt.Errorf("state: load notes: %w", err)
	}
	notes := make([]models.Note, 0, len(records))
	for i, r := range records {
		n, err := storage.RecordToNote(r)
		if err != nil {
			return nil, fmt.Errorf("state: record %d: %w", i, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// SaveNotes replaces the stored collection with notes, preserving order.
func (m *Manager) SaveNotes(notes []models.Note) error {
	records := make([]storage.Record, len(notes))
	for i, n := range notes {
		records[i] = storage.NoteToRecord(n)
	}
	if err := m.codec.WriteData(records); err != nil {
		return fmt.Errorf("state: save notes: %w", err)
	}
	return nil
}

// Append loads the collection, appends a note with the next free id and saves
// the result. An empty date defaults to the current time.
func (m *Manager) Append(title, text, date string) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	notes, err := m.LoadNotes()
	if err != nil {
		return models.Note{}, err
	}
	note := models.New(models.NextID(notes), title, text, models.WithDate(date))
	notes = append(notes, note)
	if err := m.SaveNotes(notes); err != nil {
		return models.Note{}, err
	}

	m.logger.Debug("note appended",
		slog.Int("id", note.ID),
		slog.Int("total", len(notes)),
		slog.String("path", m.Path()))
	return note, nil
}
