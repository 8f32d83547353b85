package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator implements domain.QuizGenerator with canned behavior.
type stubGenerator struct {
	resp       domain.ModelResponse
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, systemPrompt, userPrompt string, _ map[string]any) (domain.ModelResponse, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastPrompt = userPrompt
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testDocument() *domain.ExtractedDocument {
	return &domain.ExtractedDocument{
		Title:    "Test Article",
		BodyText: "Some article body text that is long enough to be interesting.",
	}
}

func validOutputJSON(t *testing.T, numQuestions int) []byte {
	t.Helper()
	raw, err := json.Marshal(makeValidOutput(numQuestions))
	require.NoError(t, err)
	return raw
}

func TestSynthesize_StructuredResponse(t *testing.T) {
	gen := &stubGenerator{resp: domain.StructuredResponse(validOutputJSON(t, 7))}
	s := NewSynthesizer(gen)

	out, err := s.Synthesize(context.Background(), testDocument())
	require.NoError(t, err)
	assert.Len(t, out.Quiz, 7)
	assert.Equal(t, 1, gen.calls)
}

func TestSynthesize_PromptCarriesArticleAndSchema(t *testing.T) {
	gen := &stubGenerator{resp: domain.StructuredResponse(validOutputJSON(t, 5))}
	s := NewSynthesizer(gen)

	_, err := s.Synthesize(context.Background(), testDocument())
	require.NoError(t, err)

	assert.Contains(t, gen.lastSystem, "5-10 questions")
	assert.Contains(t, gen.lastPrompt, "Test Article")
	assert.Contains(t, gen.lastPrompt, "long enough to be interesting")
	assert.Contains(t, gen.lastPrompt, `"related_topics"`)
}

func TestSynthesize_TextResponseWithFences(t *testing.T) {
	text := "<think>planning the quiz</think>\n```json\n" + string(validOutputJSON(t, 6)) + "\n```"
	gen := &stubGenerator{resp: domain.TextResponse(text)}
	s := NewSynthesizer(gen)

	out, err := s.Synthesize(context.Background(), testDocument())
	require.NoError(t, err)
	assert.Len(t, out.Quiz, 6)
}

func TestSynthesize_WrapsGeneratorError(t *testing.T) {
	cause := fmt.Errorf("model unavailable")
	gen := &stubGenerator{err: cause}
	s := NewSynthesizer(gen)

	_, err := s.Synthesize(context.Background(), testDocument())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrGenerationFailed, domainErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestSynthesize_WrapsSchemaFailure(t *testing.T) {
	gen := &stubGenerator{resp: domain.StructuredResponse(validOutputJSON(t, 3))}
	s := NewSynthesizer(gen)

	_, err := s.Synthesize(context.Background(), testDocument())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrGenerationFailed, domainErr.Code)
}
