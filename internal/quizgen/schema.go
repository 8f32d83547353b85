package quizgen

import (
	"encoding/json"
	"fmt"
	"sync"
	"wiki-quiz/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// OutputSchema returns the machine-readable descriptor of the shape the
// generative model must return. It is both compiled for validation and
// handed to generator adapters to steer model output.
func OutputSchema() map[string]any {
	questionSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"answer": map[string]any{"type": "string"},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard},
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []any{"question", "options", "answer", "difficulty", "explanation"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"key_entities": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"people":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"organizations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"locations":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
			"sections": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"quiz": map[string]any{
				"type":     "array",
				"items":    questionSchema,
				"minItems": 5,
				"maxItems": 10,
			},
			"related_topics": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"summary", "key_entities", "sections", "quiz", "related_topics"},
	}
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// getCompiledSchema compiles the output schema once and caches it.
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not a Go map
		// with typed numbers. Marshal then unmarshal to get a clean
		// representation.
		defBytes, err := json.Marshal(OutputSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://quiz_output.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateQuizOutput validates raw JSON against the output schema and
// normalizes it into a typed QuizOutput. Unknown extra fields are ignored;
// type mismatches fail rather than being coerced. Beyond the schema it
// enforces that each answer is one of the question's four options.
func ValidateQuizOutput(raw json.RawMessage) (*domain.QuizOutput, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domain.NewSchemaError("Model response is not valid JSON", err)
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return nil, domain.NewInternalError("Failed to compile output schema", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return nil, domain.NewSchemaError("Model response does not match the required quiz shape", err)
	}

	var output domain.QuizOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, domain.NewSchemaError("Failed to decode validated response", err)
	}

	for i, q := range output.Quiz {
		if !containsOption(q.Options, q.Answer) {
			return nil, domain.NewSchemaError(
				fmt.Sprintf("Question %d: answer %q is not one of the options", i+1, q.Answer), nil)
		}
	}

	return &output, nil
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
