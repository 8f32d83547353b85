package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"wiki-quiz/internal/domain"

	"google.golang.org/genai"
)

// Fixed creativity parameter for quiz generation.
const generationTemperature = 0.7

// GeminiQuizGenerator implements domain.QuizGenerator using the Google
// Gemini SDK with native structured output: the response schema is passed to
// the model, so responses always come back as JSON.
type GeminiQuizGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiQuizGenerator creates a new GeminiQuizGenerator.
func NewGeminiQuizGenerator(ctx context.Context, apiKey, model string) (*GeminiQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiQuizGenerator{client: client, model: model}, nil
}

// Generate implements domain.QuizGenerator
func (g *GeminiQuizGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, schema map[string]any) (domain.ModelResponse, error) {
	temp := float32(generationTemperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   buildGeminiSchema(schema),
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: userPrompt}}},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	return domain.StructuredResponse(json.RawMessage(result.Text())), nil
}

// buildGeminiSchema converts a JSON Schema definition map to a genai.Schema.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if t, ok := def["type"].(string); ok {
		schema.Type = mapGeminiType(t)
	}
	if desc, ok := def["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := def["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for k, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				schema.Properties[k] = buildGeminiSchema(propDef)
			}
		}
	}

	if req, ok := def["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if enums, ok := def["enum"].([]any); ok {
		for _, e := range enums {
			if s, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}

	if items, ok := def["items"].(map[string]any); ok {
		schema.Items = buildGeminiSchema(items)
	}

	if min, ok := asInt64(def["minItems"]); ok {
		schema.MinItems = &min
	}
	if max, ok := asInt64(def["maxItems"]); ok {
		schema.MaxItems = &max
	}

	return schema
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func mapGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// Static assertion to ensure GeminiQuizGenerator implements QuizGenerator
var _ domain.QuizGenerator = (*GeminiQuizGenerator)(nil)
