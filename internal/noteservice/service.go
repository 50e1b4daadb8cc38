// Package noteservice exposes the note operations used by the CLI, REST API
// and MCP surfaces.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/zametki/internal/apperr"
	"github.com/starford/zametki/internal/models"
	"github.com/starford/zametki/internal/search"
	"github.com/starford/zametki/internal/state"
)

// Search modes accepted by Search.
const (
	ModeTitle   = "title"
	ModeDate    = "date"
	ModeKeyword = "keyword"
)

// Modes lists every search mode.
var Modes = []string{ModeTitle, ModeDate, ModeKeyword}

// CreateRequest carries the user input for a new note.
type CreateRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Date  string `json:"date,omitempty"`
}

// Validate trims the request and checks required fields and the date layout.
func (r *CreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Text = strings.TrimSpace(r.Text)
	r.Date = strings.TrimSpace(r.Date)
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.Date, validation.Date(models.DateLayout)),
	)
}

// Observer is notified after a note has been created.
type Observer func(n models.Note)

// Option configures a Service.
type Option func(*Service)

// WithLabels sets the report captions.
func WithLabels(l search.Labels) Option {
	return func(s *Service) {
		s.labels = l
	}
}

// WithObserver registers a callback run after every successful Create.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, o)
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// Service runs note operations against a state manager.
type Service struct {
	state     *state.Manager
	labels    search.Labels
	observers []Observer
	logger    *slog.Logger
}

// NewService creates a new note service.
func NewService(m *state.Manager, opts ...Option) *Service {
	s := &Service{
		state:  m,
		labels: search.RussianLabels,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Labels returns the captions used for reports.
func (s *Service) Labels() search.Labels {
	return s.labels
}

// Create validates req, assigns the next id and persists the note.
func (s *Service) Create(_ context.Context, req CreateRequest) (models.Note, error) {
	if err := req.Validate(); err != nil {
		return models.Note{}, fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	note, err := s.state.Append(req.Title, req.Text, req.Date)
	if err != nil {
		return models.Note{}, err
	}
	s.logger.Info("note created", slog.Int("id", note.ID), slog.String("title", note.Title))
	for _, o := range s.observers {
		o(note)
	}
	return note, nil
}

// Run loads the collection and executes strategy over it.
func (s *Service) Run(_ context.Context, strategy search.Strategy) (string, error) {
	notes, err := s.state.LoadNotes()
	if err != nil {
		return "", err
	}
	return strategy.Execute(notes), nil
}

// ListAll renders every note.
func (s *Service) ListAll(ctx context.Context) (string, error) {
	return s.Run(ctx, search.ViewAll{Labels: s.labels})
}

// ListTitles renders note titles, one per line.
func (s *Service) ListTitles(ctx context.Context) (string, error) {
	return s.Run(ctx, search.ViewTitles{})
}

// GetByID renders the note with the given id.
func (s *Service) GetByID(ctx context.Context, id int) (string, error) {
	return s.Run(ctx, search.ByID{ID: id, Labels: s.labels})
}

// SearchByTitle renders notes with exactly this title.
func (s *Service) SearchByTitle(ctx context.Context, title string) (string, error) {
	return s.Run(ctx, search.ByTitle{Title: title, Labels: s.labels})
}

// SearchByDate renders notes with exactly this date string.
func (s *Service) SearchByDate(ctx context.Context, date string) (string, error) {
	return s.Run(ctx, search.ByDate{Date: date, Labels: s.labels})
}

// SearchByKeyword renders one block per occurrence of word in note texts.
func (s *Service) SearchByKeyword(ctx context.Context, word string) (string, error) {
	return s.Run(ctx, search.ByKeyword{Word: word, Labels: s.labels})
}

// Search dispatches to the strategy named by mode.
func (s *Service) Search(ctx context.Context, mode, value string) (string, error) {
	switch mode {
	case ModeTitle:
		return s.SearchByTitle(ctx, value)
	case ModeDate:
		return s.SearchByDate(ctx, value)
	case ModeKeyword:
		return s.SearchByKeyword(ctx, value)
	default:
		return "", fmt.Errorf("%w: unknown search mode %q", apperr.ErrInvalidInput, mode)
	}
}

// ParseID converts user input into a note id.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer: %w", apperr.ErrInvalidInput, err)
	}
	return id, nil
}
