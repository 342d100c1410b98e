package survey

import (
	"github.com/getmockd/surveyd/pkg/template"
)

// Escaper transforms user-supplied text before it enters a render context.
type Escaper func(string) string

func (e Escaper) apply(s string) string {
	if e == nil {
		return s
	}
	return e(s)
}

// TemplateData builds the render context for a single survey page.
//
//	survey.id, survey.title, survey.questionCount, survey.responseCount
//	survey.hasResponses, survey.noResponses
//	survey.questions[]   {number, text}
//	survey.responses[]   {number, answers[] {number, question, answer}}
func (s *Survey) TemplateData(esc Escaper) template.Value {
	return template.Map(map[string]template.Value{
		"survey": s.value(esc),
	})
}

// ListTemplateData builds the render context for the survey index page.
//
//	surveys[]   same shape as survey in TemplateData
//	hasSurveys, noSurveys, count
func ListTemplateData(surveys []*Survey, esc Escaper) template.Value {
	items := make([]template.Value, 0, len(surveys))
	for _, s := range surveys {
		items = append(items, s.value(esc))
	}
	return template.Map(map[string]template.Value{
		"surveys":    template.Seq(items),
		"hasSurveys": template.Bool(len(items) > 0),
		"noSurveys":  template.Bool(len(items) == 0),
		"count":      template.Int(int64(len(items))),
	})
}

func (s *Survey) value(esc Escaper) template.Value {
	questions := make([]template.Value, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = template.Map(map[string]template.Value{
			"number": template.Int(int64(i + 1)),
			"text":   template.String(esc.apply(q)),
		})
	}

	responses := make([]template.Value, len(s.Responses))
	for i, r := range s.Responses {
		answers := make([]template.Value, len(r))
		for j, a := range r {
			question := ""
			if j < len(s.Questions) {
				question = esc.apply(s.Questions[j])
			}
			answers[j] = template.Map(map[string]template.Value{
				"number":   template.Int(int64(j + 1)),
				"question": template.String(question),
				"answer":   template.String(esc.apply(a)),
			})
		}
		responses[i] = template.Map(map[string]template.Value{
			"number":  template.Int(int64(i + 1)),
			"answers": template.Seq(answers),
		})
	}

	return template.Map(map[string]template.Value{
		"id":            template.Int(int64(s.ID)),
		"title":         template.String(esc.apply(s.Title)),
		"questions":     template.Seq(questions),
		"responses":     template.Seq(responses),
		"hasResponses":  template.Bool(len(s.Responses) > 0),
		"noResponses":   template.Bool(len(s.Responses) == 0),
		"questionCount": template.Int(int64(len(s.Questions))),
		"responseCount": template.Int(int64(len(s.Responses))),
	})
}
