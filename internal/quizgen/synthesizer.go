package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
)

const systemPrompt = `You are an expert educational content creator specializing in creating engaging and educational quizzes from Wikipedia articles.

Your task is to analyze the provided Wikipedia article text and generate a comprehensive quiz that:
1. Tests understanding of key concepts, facts, and important details
2. Covers different aspects of the topic (history, significance, key figures, etc.)
3. Includes questions of varying difficulty levels
4. Provides clear, accurate explanations
5. Identifies key entities (people, organizations, locations)
6. Suggests related topics for further learning

IMPORTANT GUIDELINES:
- Generate exactly 5-10 questions (aim for 7-8 questions)
- Each question must have exactly 4 options (A, B, C, D)
- Ensure the correct answer is factually accurate based on the article
- Vary difficulty levels: include easy, medium, and hard questions
- Provide concise but informative explanations (1-2 sentences)
- Extract all key entities mentioned in the article
- Identify main sections/headings from the article
- Suggest 3-5 related Wikipedia topics that would complement this article

OUTPUT FORMAT: You must return valid JSON matching the exact structure specified.`

const userPromptTemplate = `Analyze the following Wikipedia article and generate a quiz:

Article Title: %s

Article Content:
%s

Generate a quiz with the following structure:
- A concise summary (2-3 sentences)
- Key entities (people, organizations, locations)
- Main sections/headings
- 5-10 quiz questions with 4 options each, correct answers, difficulty levels, and explanations
- Related topics for further reading

You must return a valid JSON object matching this schema:
%s

Ensure the response is valid JSON only, no markdown formatting.`

// Synthesizer implements domain.QuizSynthesizer. It builds a generation
// request from an extracted document, invokes the injected generator once,
// and validates the result against the output schema. There is no retry and
// no partial-result fallback; every failure surfaces as GENERATION_FAILED.
type Synthesizer struct {
	generator domain.QuizGenerator
}

// NewSynthesizer creates a new Synthesizer with an injected generator.
func NewSynthesizer(generator domain.QuizGenerator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Synthesize implements domain.QuizSynthesizer
func (s *Synthesizer) Synthesize(ctx context.Context, doc *domain.ExtractedDocument) (*domain.QuizOutput, error) {
	schemaJSON, err := json.MarshalIndent(OutputSchema(), "", "  ")
	if err != nil {
		return nil, domain.NewInternalError("Failed to marshal output schema", err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, doc.Title, doc.BodyText, string(schemaJSON))

	logger.Get().Info("Requesting quiz generation",
		zap.String("title", doc.Title),
		zap.Int("body_chars", len(doc.BodyText)),
	)

	resp, err := s.generator.Generate(ctx, systemPrompt, userPrompt, OutputSchema())
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	raw, err := normalizeResponse(resp)
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	output, err := ValidateQuizOutput(raw)
	if err != nil {
		return nil, domain.NewGenerationError(err)
	}

	logger.Get().Info("Quiz generated",
		zap.String("title", doc.Title),
		zap.Int("questions", len(output.Quiz)),
	)

	return output, nil
}

// normalizeResponse reduces the two ModelResponse shapes to raw JSON. Text
// responses get reasoning blocks and markdown code fences stripped, since
// some models wrap their JSON in them regardless of instructions.
func normalizeResponse(resp domain.ModelResponse) (json.RawMessage, error) {
	switch r := resp.(type) {
	case domain.StructuredResponse:
		return json.RawMessage(r), nil
	case domain.TextResponse:
		text := strings.TrimSpace(string(r))
		if thinkStart := strings.Index(text, "<think>"); thinkStart != -1 {
			if thinkEnd := strings.Index(text, "</think>"); thinkEnd != -1 {
				text = text[thinkEnd+len("</think>"):]
			}
		}
		text = strings.TrimSpace(text)
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
		return json.RawMessage(text), nil
	default:
		return nil, fmt.Errorf("unsupported model response type %T", resp)
	}
}

// Static assertion to ensure Synthesizer implements QuizSynthesizer
var _ domain.QuizSynthesizer = (*Synthesizer)(nil)
