package api

import (
	"github.com/starford/zametki/internal/models"
	"github.com/starford/zametki/internal/noteservice"
)

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest = noteservice.CreateRequest

// Note is the created-note response type (aliased from the domain layer).
type Note = models.Note

// ReportResponse wraps a rendered text report.
type ReportResponse struct {
	Report string `json:"report" example:"ID: 1\nНазвание: A" validate:"required"`
}
