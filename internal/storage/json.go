package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cast"

	"github.com/starford/zametki/internal/models"
)

// DefaultPath is the store location used when none is configured.
const DefaultPath = "data/notes.json"

var (
	// ErrMissingField is matched by errors returned from RecordToNote when a
	// required key is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when a stored value cannot be converted.
	ErrInvalidField = errors.New("invalid field")
)

// MissingFieldError names the absent key of a malformed record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("storage: record %s %q", ErrMissingField, e.Field)
}

// Is reports ErrMissingField equivalence.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Record is the on-disk shape of one note. A nil field means the key was
// absent (or null) in the stored object.
type Record struct {
	ID    any `json:"id"`
	Title any `json:"title"`
	Text  any `json:"text"`
	Date  any `json:"date"`
}

// CorruptionHandler is notified when the store file exists but cannot be parsed.
type CorruptionHandler func(path string, err error)

// JSONOption configures a JSON codec.
type JSONOption func(*JSON)

// WithLogger sets the logger used for corruption warnings.
func WithLogger(l *slog.Logger) JSONOption {
	return func(j *JSON) {
		j.logger = l
	}
}

// WithCorruptionHandler registers a hook called when the store is unreadable
// as JSON. Reading still degrades to an empty collection.
func WithCorruptionHandler(h CorruptionHandler) JSONOption {
	return func(j *JSON) {
		j.onCorrupt = h
	}
}

// JSON reads and writes the whole note collection as one JSON document.
type JSON struct {
	provider  Provider
	name      string
	logger    *slog.Logger
	onCorrupt CorruptionHandler
}

// NewJSON creates a codec for the file name inside provider.
func NewJSON(provider Provider, name string, opts ...JSONOption) *JSON {
	j := &JSON{
		provider: provider,
		name:     name,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// OpenJSON creates the parent directory of path if needed and returns a codec
// backed by a Dir provider rooted there. Temp files left by interrupted writes
// are cleared.
func OpenJSON(path string, opts ...JSONOption) (*JSON, error) {
	if path == "" {
		path = DefaultPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	d, err := NewDir(dir)
	if err != nil {
		return nil, err
	}
	j := NewJSON(d, filepath.Base(path), opts...)
	if n, err := d.RemoveStaleTemp(); err != nil {
		j.logger.Warn("could not remove stale temp files", slog.String("dir", d.Root()), slog.String("error", err.Error()))
	} else if n > 0 {
		j.logger.Info("removed stale temp files", slog.String("dir", d.Root()), slog.Int("count", n))
	}
	return j, nil
}

// Path returns the file location as seen by the provider.
func (j *JSON) Path() string {
	if d, ok := j.provider.(*Dir); ok {
		return filepath.Join(d.Root(), j.name)
	}
	return j.name
}

// ReadData returns every stored record in file order. A missing file or
// content that is not a JSON array of objects yields an empty slice and no
// error; any other read failure is returned.
func (j *JSON) ReadData() ([]Record, error) {
	data, err := j.provider.Read(j.name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			j.logger.Debug("store file not found, starting empty", slog.String("path", j.Path()))
			return []Record{}, nil
		}
		return nil, err
	}

	records, err := decodeRecords(data)
	if err != nil {
		j.logger.Warn("store file is corrupt, treating as empty",
			slog.String("path", j.Path()),
			slog.String("error", err.Error()))
		if j.onCorrupt != nil {
			j.onCorrupt(j.Path(), err)
		}
		return []Record{}, nil
	}
	return records, nil
}

// WriteData replaces the store file with records, indented by four spaces.
// Non-ASCII and HTML characters are written literally.
func (j *JSON) WriteData(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("storage: encode records: %w", err)
	}
	return j.provider.Write(j.name, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func decodeRecords(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid json: trailing data after array")
	}
	if records == nil {
		// A literal null document.
		records = []Record{}
	}
	return records, nil
}

// NoteToRecord projects a note onto its persisted shape.
func NoteToRecord(n models.Note) Record {
	return Record{
		ID:    n.ID,
		Title: n.Title,
		Text:  n.Text,
		Date:  n.Date,
	}
}

// RecordToNote converts a persisted record back into a note. Absent keys are
// reported as *MissingFieldError.
func RecordToNote(r Record) (models.Note, error) {
	fields := []struct {
		name  string
		value any
	}{
		{"id", r.ID},
		{"title", r.Title},
		{"text", r.Text},
		{"date", r.Date},
	}
	for _, f := range fields {
		if f.value == nil {
			return models.Note{}, &MissingFieldError{Field: f.name}
		}
	}

	id, err := cast.ToIntE(r.ID)
	if err != nil {
		return models.Note{}, fmt.Errorf("storage: %w %q: %v", ErrInvalidField, "id", err)
	}
	title, err := cast.ToStringE(r.Title)
	if err != nil {
		return models.Note{}, fmt.Errorf("storage: %w %q: %v", ErrInvalidField, "title", err)
	}
	text, err := cast.ToStringE(r.Text)
	if err != nil {
		return models.Note{}, fmt.Errorf("storage: %w %q: %v", ErrInvalidField, "text", err)
	}
	date, err := cast.ToStringE(r.Date)
	if err != nil {
		return models.Note{}, fmt.Errorf("storage: %w %q: %v", ErrInvalidField, "date", err)
	}

	return models.Note{ID: id, Title: title, Text: text, Date: date}, nil
}
