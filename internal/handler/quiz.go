package handler

import (
	"strings"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// wikipediaArticlePrefix is the only accepted source URL prefix.
const wikipediaArticlePrefix = "https://en.wikipedia.org/wiki/"

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia URL
// @Description Scrapes the article, generates a quiz with the LLM, and persists it. Returns the cached quiz if the URL was seen before.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Wikipedia article URL"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body must be JSON with a url field")
	}

	if req.URL == "" {
		return domain.NewInvalidInputError("url is required")
	}
	if !strings.HasPrefix(req.URL, wikipediaArticlePrefix) {
		return domain.NewInvalidInputError("Invalid Wikipedia URL. Must be from en.wikipedia.org")
	}

	// Errors are logged once by the error middleware.
	quiz, err := h.service.GetOrCreateQuiz(c.Context(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(quiz)
}

// GetQuizHistory godoc
// @Summary List previously generated quizzes
// @Description Returns id, url, title, and created_at for all quizzes, newest first
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {array} dto.HistoryItemResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) GetQuizHistory(c *fiber.Ctx) error {
	items, err := h.service.GetQuizHistory(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(items)
}

// GetQuizByID godoc
// @Summary Get a quiz by ID
// @Description Returns the full quiz record for the given ID
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuizByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return domain.NewInvalidInputError("id is required")
	}

	quiz, err := h.service.GetQuizByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(quiz)
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Wiki Quiz Generator API",
		"status":  "running",
	})
}
