package service

import (
	"context"
	"time"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	// GetOrCreateQuiz returns the stored quiz for a URL if one exists,
	// otherwise runs the extract-synthesize-persist pipeline. The URL is
	// the literal cache key; no normalization is applied.
	GetOrCreateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error)
	GetQuizHistory(ctx context.Context) ([]dto.HistoryItemResponse, error)
	GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	repo        domain.QuizRepository
	extractor   domain.ArticleExtractor
	synthesizer domain.QuizSynthesizer
	recordCache RecordCacheService // optional, may be nil
	genTimeout  time.Duration

	// group collapses concurrent generations for the same URL into one
	// in-process flight. Cross-instance duplicates are left to the unique
	// url index at the persistence layer.
	group singleflight.Group
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	extractor domain.ArticleExtractor,
	synthesizer domain.QuizSynthesizer,
	recordCache RecordCacheService,
	genTimeout time.Duration,
) QuizService {
	return &quizService{
		repo:        repo,
		extractor:   extractor,
		synthesizer: synthesizer,
		recordCache: recordCache,
		genTimeout:  genTimeout,
	}
}

// GetOrCreateQuiz implements QuizService
func (s *quizService) GetOrCreateQuiz(ctx context.Context, url string) (*dto.QuizResponse, error) {
	if s.recordCache != nil {
		cached, err := s.recordCache.GetQuizRecord(ctx, url)
		if err != nil {
			logger.Get().Error("QuizService: error reading record cache",
				zap.Error(err),
				zap.String("url", url))
			// Fall through to the repository path.
		} else if cached != nil {
			logger.Get().Info("QuizService: record cache hit", zap.String("url", url))
			return toQuizResponse(cached), nil
		}
	}

	// The flight outlives any single caller: the result serves piggybacked
	// requests and is persisted, so the pipeline runs on a context detached
	// from the first caller's cancellation. The model timeout still applies
	// inside getOrCreate.
	v, err, shared := s.group.Do(url, func() (interface{}, error) {
		return s.getOrCreate(context.WithoutCancel(ctx), url)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("QuizService: generation shared with concurrent request", zap.String("url", url))
	}

	return toQuizResponse(v.(*domain.QuizRecord)), nil
}

func (s *quizService) getOrCreate(ctx context.Context, url string) (*domain.QuizRecord, error) {
	existing, err := s.repo.FindByURL(ctx, url)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up quiz by URL", err)
	}
	if existing != nil {
		s.putRecordCache(ctx, existing)
		return existing, nil
	}

	doc, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	// The fetch step bounds its own timeout; the model call gets one here.
	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	output, err := s.synthesizer.Synthesize(genCtx, doc)
	if err != nil {
		return nil, err
	}

	record := &domain.QuizRecord{
		URL:              url,
		Title:            doc.Title,
		Summary:          output.Summary,
		KeyEntities:      output.KeyEntities,
		Sections:         output.Sections,
		Quiz:             output.Quiz,
		RelatedTopics:    output.RelatedTopics,
		RawExtractedText: doc.BodyText,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, domain.NewInternalError("Failed to persist quiz record", err)
	}

	logger.Get().Info("QuizService: created quiz record",
		zap.String("id", record.ID),
		zap.String("url", url),
		zap.Int("questions", len(record.Quiz)),
	)

	s.putRecordCache(ctx, record)
	return record, nil
}

func (s *quizService) putRecordCache(ctx context.Context, record *domain.QuizRecord) {
	if s.recordCache == nil {
		return
	}
	if err := s.recordCache.PutQuizRecord(ctx, record); err != nil {
		logger.Get().Error("QuizService: error writing record cache",
			zap.Error(err),
			zap.String("url", record.URL))
		// Do not surface cache write failures to the caller.
	}
}

// GetQuizHistory implements QuizService
func (s *quizService) GetQuizHistory(ctx context.Context) ([]dto.HistoryItemResponse, error) {
	summaries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz history", err)
	}

	items := make([]dto.HistoryItemResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.HistoryItemResponse{
			ID:        s.ID,
			URL:       s.URL,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
		})
	}
	return items, nil
}

// GetQuizByID implements QuizService
func (s *quizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz by ID", err)
	}
	if record == nil {
		return nil, domain.NewNotFoundError("Quiz not found: " + id)
	}
	return toQuizResponse(record), nil
}

func toQuizResponse(record *domain.QuizRecord) *dto.QuizResponse {
	questions := make([]dto.QuizQuestionResponse, 0, len(record.Quiz))
	for _, q := range record.Quiz {
		questions = append(questions, dto.QuizQuestionResponse{
			Question:    q.Question,
			Options:     q.Options,
			Answer:      q.Answer,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}

	return &dto.QuizResponse{
		ID:        record.ID,
		URL:       record.URL,
		Title:     record.Title,
		CreatedAt: record.CreatedAt,
		Summary:   record.Summary,
		KeyEntities: dto.KeyEntitiesResponse{
			People:        record.KeyEntities.People,
			Organizations: record.KeyEntities.Organizations,
			Locations:     record.KeyEntities.Locations,
		},
		Sections:      record.Sections,
		Quiz:          questions,
		RelatedTopics: record.RelatedTopics,
	}
}
