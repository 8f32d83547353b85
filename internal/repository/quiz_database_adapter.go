package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/repository/models"
	"wiki-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

const recordColumns = `id, url, title, created_at, raw_extracted_text, quiz_data`

// FindByURL implements domain.QuizRepository
func (a *QuizDatabaseAdapter) FindByURL(ctx context.Context, url string) (*domain.QuizRecord, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + recordColumns + ` FROM quizzes WHERE url = ?`

	err := a.db.GetContext(ctx, &modelQuiz, query, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find quiz by URL %s: %w", url, err)
	}
	return toDomainQuizRecord(&modelQuiz)
}

// FindByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) FindByID(ctx context.Context, id string) (*domain.QuizRecord, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + recordColumns + ` FROM quizzes WHERE id = ?`

	err := a.db.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find quiz by ID %s: %w", id, err)
	}
	return toDomainQuizRecord(&modelQuiz)
}

// Insert implements domain.QuizRepository. It assigns the record's ID and
// CreatedAt. The unique index on url makes concurrent inserts for the same
// URL a first-writer-wins race at the database.
func (a *QuizDatabaseAdapter) Insert(ctx context.Context, record *domain.QuizRecord) error {
	modelQuiz, err := toModelQuiz(record)
	if err != nil {
		return err
	}
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now().UTC()

	query := `INSERT INTO quizzes (
		id, url, title, created_at, raw_extracted_text, quiz_data
	) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = a.db.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.URL,
		modelQuiz.Title,
		modelQuiz.CreatedAt,
		modelQuiz.RawExtractedText,
		modelQuiz.QuizData,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quiz record: %w", err)
	}

	record.ID = modelQuiz.ID
	record.CreatedAt = modelQuiz.CreatedAt
	return nil
}

// ListAll implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListAll(ctx context.Context) ([]domain.QuizRecordSummary, error) {
	var rows []models.Quiz
	query := `SELECT id, url, title, created_at FROM quizzes ORDER BY created_at DESC`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list quiz records: %w", err)
	}

	summaries := make([]domain.QuizRecordSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.QuizRecordSummary{
			ID:        row.ID,
			URL:       row.URL,
			Title:     row.Title,
			CreatedAt: row.CreatedAt,
		})
	}
	return summaries, nil
}

// quizPayload is the serialized shape stored in the quiz_data column.
type quizPayload struct {
	Summary       string                `json:"summary"`
	KeyEntities   domain.KeyEntities    `json:"key_entities"`
	Sections      []string              `json:"sections"`
	Quiz          []domain.QuizQuestion `json:"quiz"`
	RelatedTopics []string              `json:"related_topics"`
}

func toModelQuiz(record *domain.QuizRecord) (*models.Quiz, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot convert nil quiz record")
	}

	payload := quizPayload{
		Summary:       record.Summary,
		KeyEntities:   record.KeyEntities,
		Sections:      record.Sections,
		Quiz:          record.Quiz,
		RelatedTopics: record.RelatedTopics,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize quiz payload: %w", err)
	}

	return &models.Quiz{
		ID:               record.ID,
		URL:              record.URL,
		Title:            record.Title,
		CreatedAt:        record.CreatedAt,
		RawExtractedText: record.RawExtractedText,
		QuizData:         string(data),
	}, nil
}

func toDomainQuizRecord(modelQuiz *models.Quiz) (*domain.QuizRecord, error) {
	if modelQuiz == nil {
		return nil, fmt.Errorf("cannot convert nil quiz model")
	}

	var payload quizPayload
	if err := json.Unmarshal([]byte(modelQuiz.QuizData), &payload); err != nil {
		return nil, fmt.Errorf("failed to deserialize quiz payload for record %s: %w", modelQuiz.ID, err)
	}

	return &domain.QuizRecord{
		ID:               modelQuiz.ID,
		URL:              modelQuiz.URL,
		Title:            modelQuiz.Title,
		CreatedAt:        modelQuiz.CreatedAt,
		Summary:          payload.Summary,
		KeyEntities:      payload.KeyEntities,
		Sections:         payload.Sections,
		Quiz:             payload.Quiz,
		RelatedTopics:    payload.RelatedTopics,
		RawExtractedText: modelQuiz.RawExtractedText,
	}, nil
}
