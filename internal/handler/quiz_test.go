package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	os.Exit(m.Run())
}

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) GetOrCreateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuizResponse), args.Error(1)
}

func (m *MockQuizService) GetQuizHistory(ctx context.Context) ([]dto.HistoryItemResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.HistoryItemResponse), args.Error(1)
}

func (m *MockQuizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuizResponse), args.Error(1)
}

func newTestApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})

	h := NewQuizHandler(svc)
	app.Get("/", h.Health)
	api := app.Group("/api")
	api.Post("/quizzes", h.GenerateQuiz)
	api.Get("/quizzes", h.GetQuizHistory)
	api.Get("/quizzes/:id", h.GetQuizByID)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) middleware.ErrorResponse {
	t.Helper()
	var errResp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp
}

func sampleQuizResponse() *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:        "01HTESTQUIZID0000000000000",
		URL:       "https://en.wikipedia.org/wiki/Alan_Turing",
		Title:     "Alan Turing",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Summary:   "A summary.",
		Quiz: []dto.QuizQuestionResponse{
			{
				Question:   "Where did he work?",
				Options:    []string{"A", "B", "C", "D"},
				Answer:     "A",
				Difficulty: domain.DifficultyEasy,
			},
		},
	}
}

func TestGenerateQuiz_Success(t *testing.T) {
	svc := new(MockQuizService)
	url := "https://en.wikipedia.org/wiki/Alan_Turing"
	svc.On("GetOrCreateQuiz", mock.Anything, url).Return(sampleQuizResponse(), nil)

	app := newTestApp(svc)
	resp := postJSON(t, app, "/api/quizzes", dto.GenerateQuizRequest{URL: url})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quiz dto.QuizResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quiz))
	assert.Equal(t, "01HTESTQUIZID0000000000000", quiz.ID)
	assert.Equal(t, url, quiz.URL)
	require.Len(t, quiz.Quiz, 1)
}

func TestGenerateQuiz_MissingURL(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/quizzes", dto.GenerateQuizRequest{})

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(domain.ErrInvalidInput), decodeError(t, resp).Code)
	svc.AssertNotCalled(t, "GetOrCreateQuiz", mock.Anything, mock.Anything)
}

func TestGenerateQuiz_RejectsNonWikipediaURL(t *testing.T) {
	svc := new(MockQuizService)
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/quizzes", dto.GenerateQuizRequest{URL: "https://example.com/article"})

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(domain.ErrInvalidInput), decodeError(t, resp).Code)
	svc.AssertNotCalled(t, "GetOrCreateQuiz", mock.Anything, mock.Anything)
}

func TestGenerateQuiz_ExtractionErrorMapsTo400(t *testing.T) {
	svc := new(MockQuizService)
	url := "https://en.wikipedia.org/wiki/Empty_Page"
	svc.On("GetOrCreateQuiz", mock.Anything, url).
		Return(nil, domain.NewExtractionError("Could not extract sufficient content from the article"))

	app := newTestApp(svc)
	resp := postJSON(t, app, "/api/quizzes", dto.GenerateQuizRequest{URL: url})

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(domain.ErrExtractionFailed), decodeError(t, resp).Code)
}

func TestGenerateQuiz_GenerationErrorMapsTo503(t *testing.T) {
	svc := new(MockQuizService)
	url := "https://en.wikipedia.org/wiki/Alan_Turing"
	svc.On("GetOrCreateQuiz", mock.Anything, url).
		Return(nil, domain.NewGenerationError(assert.AnError))

	app := newTestApp(svc)
	resp := postJSON(t, app, "/api/quizzes", dto.GenerateQuizRequest{URL: url})

	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, string(domain.ErrGenerationFailed), decodeError(t, resp).Code)
}

func TestGetQuizByID_NotFoundMapsTo404(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GetQuizByID", mock.Anything, "missing").
		Return(nil, domain.NewNotFoundError("Quiz not found: missing"))

	app := newTestApp(svc)
	req := httptest.NewRequest("GET", "/api/quizzes/missing", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, string(domain.ErrNotFound), errResp.Code)
}

func TestGetQuizHistory_ReturnsItems(t *testing.T) {
	svc := new(MockQuizService)
	svc.On("GetQuizHistory", mock.Anything).Return([]dto.HistoryItemResponse{
		{ID: "id1", URL: "https://en.wikipedia.org/wiki/A", Title: "A", CreatedAt: time.Now().UTC()},
	}, nil)

	app := newTestApp(svc)
	req := httptest.NewRequest("GET", "/api/quizzes", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []dto.HistoryItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "id1", items[0].ID)
}

func TestHealth(t *testing.T) {
	app := newTestApp(new(MockQuizService))
	req := httptest.NewRequest("GET", "/", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "running", body["status"])
}
