package survey

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Messages reported when a request body fails validation.
const (
	MsgCreateInvalid = "Title and questions are required"
	MsgSubmitInvalid = "Answers should be an array"
)

// FieldError describes a single schema violation.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError is returned when a request body does not match its schema.
type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

type compiledSchema struct {
	name   string
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var (
	createSchema = &compiledSchema{name: "create.json"}
	submitSchema = &compiledSchema{name: "submit.json"}
)

func (c *compiledSchema) get() (*jsonschema.Schema, error) {
	c.once.Do(func() {
		data, err := schemaFS.ReadFile("schemas/" + c.name)
		if err != nil {
			c.err = fmt.Errorf("reading schema %s: %w", c.name, err)
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(c.name, bytes.NewReader(data)); err != nil {
			c.err = fmt.Errorf("adding schema %s: %w", c.name, err)
			return
		}
		c.schema, c.err = compiler.Compile(c.name)
	})
	return c.schema, c.err
}

func validate(c *compiledSchema, body map[string]any, message string) error {
	schema, err := c.get()
	if err != nil {
		return err
	}
	if err := schema.Validate(body); err != nil {
		verr := &ValidationError{Message: message}
		if schemaErr, ok := err.(*jsonschema.ValidationError); ok {
			collectSchemaErrors(schemaErr, verr)
		} else {
			verr.Fields = append(verr.Fields, FieldError{Message: err.Error()})
		}
		return verr
	}
	return nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *ValidationError) {
	if len(err.Causes) == 0 {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

func fieldFromPointer(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	path = strings.TrimPrefix(path, "/")
	return strings.ReplaceAll(path, "/", ".")
}

// ParseCreate validates a decoded request body and builds a CreateRequest.
// A single question given as a string becomes a one-element list.
func ParseCreate(body map[string]any) (*CreateRequest, error) {
	if err := validate(createSchema, body, MsgCreateInvalid); err != nil {
		return nil, err
	}

	req := &CreateRequest{Title: body["title"].(string)}
	switch q := body["questions"].(type) {
	case string:
		req.Questions = []string{q}
	case []any:
		req.Questions = make([]string, 0, len(q))
		for _, item := range q {
			req.Questions = append(req.Questions, item.(string))
		}
	}
	return req, nil
}

// ParseSubmit validates a decoded request body and builds a SubmitRequest.
func ParseSubmit(body map[string]any) (*SubmitRequest, error) {
	if err := validate(submitSchema, body, MsgSubmitInvalid); err != nil {
		return nil, err
	}

	items := body["answers"].([]any)
	req := &SubmitRequest{Answers: make([]string, 0, len(items))}
	for _, item := range items {
		req.Answers = append(req.Answers, item.(string))
	}
	return req, nil
}
