package models

import (
	"time"
)

// Quiz is the database row for a persisted quiz record. Structured columns
// carry the identity fields; the generated payload (summary, entities,
// sections, questions, related topics) is serialized into quiz_data.
type Quiz struct {
	ID               string    `db:"id"`
	URL              string    `db:"url"`
	Title            string    `db:"title"`
	CreatedAt        time.Time `db:"created_at"`
	RawExtractedText string    `db:"raw_extracted_text"`
	QuizData         string    `db:"quiz_data"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
