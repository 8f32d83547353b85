package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeQuestion(i int) map[string]any {
	return map[string]any{
		"question":    fmt.Sprintf("Question %d?", i),
		"options":     []any{"Option A", "Option B", "Option C", "Option D"},
		"answer":      "Option B",
		"difficulty":  []string{"easy", "medium", "hard"}[i%3],
		"explanation": "Because the article says so.",
	}
}

func makeValidOutput(numQuestions int) map[string]any {
	questions := make([]any, 0, numQuestions)
	for i := 0; i < numQuestions; i++ {
		questions = append(questions, makeQuestion(i))
	}
	return map[string]any{
		"summary": "A concise summary of the article.",
		"key_entities": map[string]any{
			"people":        []any{"Ada Lovelace"},
			"organizations": []any{},
			"locations":     []any{"London"},
		},
		"sections":       []any{"History", "Legacy"},
		"quiz":           questions,
		"related_topics": []any{"Analytical Engine", "Charles Babbage", "Computing history"},
	}
}

func mustValidate(t *testing.T, payload map[string]any) (*domain.QuizOutput, error) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return ValidateQuizOutput(raw)
}

func assertSchemaError(t *testing.T, err error) {
	t.Helper()
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a DomainError, got %v", err)
	assert.Equal(t, domain.ErrSchemaInvalid, domainErr.Code)
}

func TestValidateQuizOutput_Valid(t *testing.T) {
	out, err := mustValidate(t, makeValidOutput(7))
	require.NoError(t, err)
	assert.Len(t, out.Quiz, 7)
	assert.Equal(t, "A concise summary of the article.", out.Summary)
	assert.Equal(t, []string{"Ada Lovelace"}, out.KeyEntities.People)
	assert.Len(t, out.RelatedTopics, 3)
}

func TestValidateQuizOutput_IgnoresUnknownFields(t *testing.T) {
	payload := makeValidOutput(5)
	payload["model_notes"] = "extra field the schema does not know about"

	out, err := mustValidate(t, payload)
	require.NoError(t, err)
	assert.Len(t, out.Quiz, 5)
}

func TestValidateQuizOutput_RejectsThreeOptions(t *testing.T) {
	payload := makeValidOutput(5)
	q := makeQuestion(0)
	q["options"] = []any{"Option A", "Option B", "Option C"}
	q["answer"] = "Option A"
	payload["quiz"].([]any)[2] = q

	_, err := mustValidate(t, payload)
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsTooFewQuestions(t *testing.T) {
	_, err := mustValidate(t, makeValidOutput(3))
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsTooManyQuestions(t *testing.T) {
	_, err := mustValidate(t, makeValidOutput(11))
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsUnknownDifficulty(t *testing.T) {
	payload := makeValidOutput(5)
	q := makeQuestion(0)
	q["difficulty"] = "impossible"
	payload["quiz"].([]any)[0] = q

	_, err := mustValidate(t, payload)
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsTypeMismatch(t *testing.T) {
	payload := makeValidOutput(5)
	payload["sections"] = "History, Legacy"

	_, err := mustValidate(t, payload)
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsMissingField(t *testing.T) {
	payload := makeValidOutput(5)
	delete(payload, "summary")

	_, err := mustValidate(t, payload)
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsAnswerNotInOptions(t *testing.T) {
	payload := makeValidOutput(5)
	q := makeQuestion(0)
	q["answer"] = "Option E"
	payload["quiz"].([]any)[1] = q

	_, err := mustValidate(t, payload)
	require.Error(t, err)
	assertSchemaError(t, err)
}

func TestValidateQuizOutput_RejectsInvalidJSON(t *testing.T) {
	_, err := ValidateQuizOutput(json.RawMessage(`{"summary": `))
	require.Error(t, err)
	assertSchemaError(t, err)
}
