package domain

import (
	"context"
	"time"
)

// Difficulty levels a quiz question may carry.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ExtractedDocument is the result of reducing an article page to clean
// narrative text. It is consumed once by the synthesizer and kept only as a
// side artifact on the persisted record.
type ExtractedDocument struct {
	Title    string
	BodyText string
}

// QuizQuestion represents a single multiple-choice question with exactly
// four options.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// KeyEntities holds the named entities extracted from an article. Lists may
// be empty and carry no ordering significance.
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizOutput is the strict structure the generative model must return.
type QuizOutput struct {
	Summary       string         `json:"summary"`
	KeyEntities   KeyEntities    `json:"key_entities"`
	Sections      []string       `json:"sections"`
	Quiz          []QuizQuestion `json:"quiz"`
	RelatedTopics []string       `json:"related_topics"`
}

// QuizRecord is the canonical persisted result of one successful generation
// for one URL. Records are created once and never mutated.
type QuizRecord struct {
	ID               string
	URL              string
	Title            string
	CreatedAt        time.Time
	Summary          string
	KeyEntities      KeyEntities
	Sections         []string
	Quiz             []QuizQuestion
	RelatedTopics    []string
	RawExtractedText string
}

// QuizRecordSummary is the listing projection of a QuizRecord.
type QuizRecordSummary struct {
	ID        string
	URL       string
	Title     string
	CreatedAt time.Time
}

// ArticleExtractor turns an article URL into an ExtractedDocument.
// Implementations fail with a FETCH_FAILED error for transport problems and
// an EXTRACTION_FAILED error for structural ones. Neither is retried.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (*ExtractedDocument, error)
}

// QuizSynthesizer builds a generation request from an extracted document,
// invokes the model once, and returns a schema-validated QuizOutput.
type QuizSynthesizer interface {
	Synthesize(ctx context.Context, doc *ExtractedDocument) (*QuizOutput, error)
}

// QuizRepository is the persistence port for quiz records.
type QuizRepository interface {
	// FindByURL returns the record whose url column matches exactly, or
	// (nil, nil) when no such record exists.
	FindByURL(ctx context.Context, url string) (*QuizRecord, error)

	// Insert persists a new record and assigns its ID and CreatedAt.
	Insert(ctx context.Context, record *QuizRecord) error

	// ListAll returns summaries of all records, newest first.
	ListAll(ctx context.Context) ([]QuizRecordSummary, error)

	// FindByID returns the record with the given ID, or (nil, nil) when no
	// such record exists.
	FindByID(ctx context.Context, id string) (*QuizRecord, error)
}
