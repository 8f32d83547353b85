package quizgen

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"wiki-quiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaQuizGenerator implements domain.QuizGenerator against a local Ollama
// server. Ollama has no native response-schema support, so the schema
// descriptor is already embedded in the prompt by the synthesizer and the
// answer comes back as text to be parsed downstream.
type OllamaQuizGenerator struct {
	llm *ollama.LLM
}

// NewOllamaQuizGenerator creates a new OllamaQuizGenerator.
func NewOllamaQuizGenerator(serverURL, model string) (*OllamaQuizGenerator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	httpClient := &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("create Ollama client: %w", err)
	}

	return &OllamaQuizGenerator{llm: llm}, nil
}

// Generate implements domain.QuizGenerator
func (g *OllamaQuizGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, _ map[string]any) (domain.ModelResponse, error) {
	prompt := systemPrompt + "\n\n" + userPrompt

	response, err := g.llm.Call(ctx, prompt,
		llms.WithTemperature(generationTemperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama call: %w", err)
	}

	return domain.TextResponse(response), nil
}

// Static assertion to ensure OllamaQuizGenerator implements QuizGenerator
var _ domain.QuizGenerator = (*OllamaQuizGenerator)(nil)
