package domain

import (
	"context"
	"encoding/json"
)

// ModelResponse is the tagged union of the two shapes a generative model may
// answer with: raw text that still has to be parsed as JSON, or structured
// data that is already JSON.
type ModelResponse interface {
	isModelResponse()
}

// TextResponse is a raw text answer from the model.
type TextResponse string

func (TextResponse) isModelResponse() {}

// StructuredResponse is a structured (JSON) answer from the model.
type StructuredResponse json.RawMessage

func (StructuredResponse) isModelResponse() {}

// QuizGenerator is the port to the external generative model. The schema
// parameter is a JSON-schema descriptor of the required output shape;
// adapters that support native structured output pass it to the model,
// others embed it in the prompt.
type QuizGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, schema map[string]any) (ModelResponse, error)
}
