package storage

import (
	"errors"

	"github.com/getmockd/surveyd/pkg/survey"
)

// ErrNotFound is returned when an operation targets a survey that does not exist.
var ErrNotFound = errors.New("survey not found")

// SurveyStore defines the interface for storing surveys and their responses.
type SurveyStore interface {
	// Create stores a new survey and returns it with its assigned ID.
	Create(title string, questions []string) *survey.Survey

	// Get retrieves a survey by ID. Returns nil if not found.
	Get(id int) *survey.Survey

	// List returns all stored surveys in ID order.
	List() []*survey.Survey

	// AddResponse appends one set of answers to a survey.
	AddResponse(id int, answers []string) error

	// Count returns the number of stored surveys.
	Count() int

	// Clear removes all stored surveys and resets ID assignment.
	Clear()
}
