// Package survey defines the survey model served by the HTTP API and the
// render context built from it.
package survey

// Survey is a titled list of questions together with every submitted set
// of answers.
type Survey struct {
	ID        int        `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []string   `json:"questions" yaml:"questions"`
	Responses [][]string `json:"responses" yaml:"responses"`
}

// Clone returns a deep copy of s.
func (s *Survey) Clone() *Survey {
	if s == nil {
		return nil
	}
	c := &Survey{
		ID:        s.ID,
		Title:     s.Title,
		Questions: append([]string{}, s.Questions...),
		Responses: make([][]string, len(s.Responses)),
	}
	for i, r := range s.Responses {
		c.Responses[i] = append([]string{}, r...)
	}
	return c
}

// Results is the payload returned for a survey's results.
type Results struct {
	Title     string     `json:"title"`
	Responses [][]string `json:"responses"`
}

// Results returns the title and responses of s.
func (s *Survey) Results() Results {
	c := s.Clone()
	return Results{Title: c.Title, Responses: c.Responses}
}

// CreateRequest holds the fields needed to create a survey.
type CreateRequest struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

// SubmitRequest holds one respondent's answers.
type SubmitRequest struct {
	Answers []string `json:"answers"`
}
