package service

import (
	"context"
	"encoding/json"
	"time"
	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
)

// RecordCacheService is a read-through cache of serialized quiz records
// keyed by source URL. The database stays canonical; a cache failure only
// costs a lookup there.
type RecordCacheService interface {
	GetQuizRecord(ctx context.Context, url string) (*domain.QuizRecord, error)
	PutQuizRecord(ctx context.Context, record *domain.QuizRecord) error
}

type recordCacheService struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewRecordCacheService creates a new RecordCacheService backed by the given cache.
func NewRecordCacheService(c domain.Cache, ttl time.Duration) RecordCacheService {
	return &recordCacheService{cache: c, ttl: ttl}
}

// cachedRecord is the serialized form stored in the cache.
type cachedRecord struct {
	ID               string                `json:"id"`
	URL              string                `json:"url"`
	Title            string                `json:"title"`
	CreatedAt        time.Time             `json:"created_at"`
	Summary          string                `json:"summary"`
	KeyEntities      domain.KeyEntities    `json:"key_entities"`
	Sections         []string              `json:"sections"`
	Quiz             []domain.QuizQuestion `json:"quiz"`
	RelatedTopics    []string              `json:"related_topics"`
	RawExtractedText string                `json:"raw_extracted_text"`
}

func recordCacheKey(url string) string {
	// URLs contain key-delimiter characters, so the identifier is hashed.
	return cache.GenerateCacheKey("quiz", "record", cache.HashIdentifier(url))
}

// GetQuizRecord returns the cached record for a URL, or (nil, nil) on a miss.
func (s *recordCacheService) GetQuizRecord(ctx context.Context, url string) (*domain.QuizRecord, error) {
	val, err := s.cache.Get(ctx, recordCacheKey(url))
	if err != nil {
		if err == domain.ErrCacheMiss {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedRecord
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// A corrupt entry is treated as a miss; the next Put overwrites it.
		logger.Get().Warn("RecordCacheService: failed to unmarshal cached record, treating as miss",
			zap.Error(err),
			zap.String("url", url),
		)
		return nil, nil
	}

	return &domain.QuizRecord{
		ID:               cached.ID,
		URL:              cached.URL,
		Title:            cached.Title,
		CreatedAt:        cached.CreatedAt,
		Summary:          cached.Summary,
		KeyEntities:      cached.KeyEntities,
		Sections:         cached.Sections,
		Quiz:             cached.Quiz,
		RelatedTopics:    cached.RelatedTopics,
		RawExtractedText: cached.RawExtractedText,
	}, nil
}

// PutQuizRecord stores a record in the cache with the configured TTL.
func (s *recordCacheService) PutQuizRecord(ctx context.Context, record *domain.QuizRecord) error {
	cached := cachedRecord{
		ID:               record.ID,
		URL:              record.URL,
		Title:            record.Title,
		CreatedAt:        record.CreatedAt,
		Summary:          record.Summary,
		KeyEntities:      record.KeyEntities,
		Sections:         record.Sections,
		Quiz:             record.Quiz,
		RelatedTopics:    record.RelatedTopics,
		RawExtractedText: record.RawExtractedText,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	return s.cache.Set(ctx, recordCacheKey(record.URL), string(data), s.ttl)
}
