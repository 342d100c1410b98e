package storage

import (
	"sort"
	"sync"

	"github.com/getmockd/surveyd/pkg/survey"
)

// InMemorySurveyStore is a thread-safe in-memory implementation of SurveyStore.
type InMemorySurveyStore struct {
	mu      sync.RWMutex
	surveys map[int]*survey.Survey
	nextID  int
}

// NewInMemorySurveyStore creates a new InMemorySurveyStore. IDs start at 1.
func NewInMemorySurveyStore() *InMemorySurveyStore {
	return &InMemorySurveyStore{
		surveys: make(map[int]*survey.Survey),
		nextID:  1,
	}
}

// Create stores a new survey and returns a copy of it.
func (s *InMemorySurveyStore) Create(title string, questions []string) *survey.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv := &survey.Survey{
		ID:        s.nextID,
		Title:     title,
		Questions: append([]string{}, questions...),
		Responses: [][]string{},
	}
	s.surveys[sv.ID] = sv
	s.nextID++
	return sv.Clone()
}

// Get retrieves a copy of a survey by ID. Returns nil if not found.
func (s *InMemorySurveyStore) Get(id int) *survey.Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surveys[id].Clone()
}

// List returns copies of all stored surveys, sorted by ID.
func (s *InMemorySurveyStore) List() []*survey.Survey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*survey.Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		result = append(result, sv.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// AddResponse appends answers to the survey's responses.
func (s *InMemorySurveyStore) AddResponse(id int, answers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sv, ok := s.surveys[id]
	if !ok {
		return ErrNotFound
	}
	sv.Responses = append(sv.Responses, append([]string{}, answers...))
	return nil
}

// Count returns the number of stored surveys.
func (s *InMemorySurveyStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.surveys)
}

// Clear removes all stored surveys.
func (s *InMemorySurveyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surveys = make(map[int]*survey.Survey)
	s.nextID = 1
}

// Ensure InMemorySurveyStore implements SurveyStore.
var _ SurveyStore = (*InMemorySurveyStore)(nil)
