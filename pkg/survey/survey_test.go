package survey

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/surveyd/pkg/template"
)

func TestParseCreate(t *testing.T) {
	t.Run("array of questions", func(t *testing.T) {
		req, err := ParseCreate(map[string]any{
			"title":     "Pulse",
			"questions": []any{"How are you?", "Why?"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Pulse", req.Title)
		assert.Equal(t, []string{"How are you?", "Why?"}, req.Questions)
	})

	t.Run("single question string", func(t *testing.T) {
		req, err := ParseCreate(map[string]any{"title": "Pulse", "questions": "Only one?"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Only one?"}, req.Questions)
	})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"nil body", nil},
		{"missing title", map[string]any{"questions": []any{"q"}}},
		{"empty title", map[string]any{"title": "", "questions": []any{"q"}}},
		{"missing questions", map[string]any{"title": "Pulse"}},
		{"empty question string", map[string]any{"title": "Pulse", "questions": ""}},
		{"non-string question", map[string]any{"title": "Pulse", "questions": []any{float64(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCreate(tt.body)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, MsgCreateInvalid, verr.Message)
			assert.NotEmpty(t, verr.Fields)
		})
	}
}

func TestParseSubmit(t *testing.T) {
	req, err := ParseSubmit(map[string]any{"answers": []any{"yes", "no"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"yes", "no"}, req.Answers)

	req, err = ParseSubmit(map[string]any{"answers": []any{}})
	require.NoError(t, err)
	assert.Empty(t, req.Answers)

	for _, body := range []map[string]any{
		{},
		{"answers": "yes"},
		{"answers": map[string]any{"0": "yes"}},
	} {
		_, err := ParseSubmit(body)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "body %v: got %v", body, err)
		assert.True(t, strings.HasPrefix(verr.Error(), MsgSubmitInvalid))
	}
}

func TestClone(t *testing.T) {
	s := &Survey{ID: 1, Title: "t", Questions: []string{"a"}, Responses: [][]string{{"x"}}}
	c := s.Clone()
	c.Questions[0] = "changed"
	c.Responses[0][0] = "changed"

	assert.Equal(t, "a", s.Questions[0])
	assert.Equal(t, "x", s.Responses[0][0])
	assert.Nil(t, (*Survey)(nil).Clone())
}

func TestTemplateData(t *testing.T) {
	s := &Survey{
		ID:        7,
		Title:     "Team <b>Pulse</b>",
		Questions: []string{"Mood?", "Blockers?"},
		Responses: [][]string{{"good", "none"}, {"meh"}},
	}
	upper := Escaper(strings.ToUpper)

	engine := template.New(template.WithNesting(template.NestingBalanced))
	out, err := engine.Render(
		"#{{ survey.id }} {{ survey.title }} ({{ survey.responseCount }})"+
			"{% for r in survey.responses %}[{{ r.number }}"+
			"{% for a in r.answers %} {{ a.question }}={{ a.answer }}{% endfor %}]{% endfor %}",
		s.TemplateData(upper))
	require.NoError(t, err)
	assert.Equal(t, "#7 TEAM <B>PULSE</B> (2)[1 MOOD?=GOOD BLOCKERS?=NONE][2 MOOD?=MEH]", out)

	empty := &Survey{ID: 2, Title: "New", Questions: []string{"q"}}
	out, err = template.Render("{% if survey.hasResponses %}some{% endif %}{{ survey.title }}", empty.TemplateData(nil))
	require.NoError(t, err)
	assert.Equal(t, "New", out)
}

func TestListTemplateData(t *testing.T) {
	out, err := template.Render(
		"{% if hasSurveys %}{{ count }}{% endif %}{% for s in surveys %}|{{ s.id }}:{{ s.title }}{% endfor %}",
		ListTemplateData([]*Survey{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil))
	require.NoError(t, err)
	assert.Equal(t, "2|1:a|2:b", out)

	out, err = template.Render("{% if hasSurveys %}x{% endif %}{{ count }}", ListTemplateData(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "0", out)
}
