package dto

import "time"

// GenerateQuizRequest is the request body for quiz generation
// @Description Request body for generating a quiz from a Wikipedia URL
type GenerateQuizRequest struct {
	URL string `json:"url"`
}

// QuizQuestionResponse represents a single question in the API response
type QuizQuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// KeyEntitiesResponse represents the extracted entities in the API response
type KeyEntitiesResponse struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizResponse represents a full quiz record in the API response
// @Description Full quiz record for one Wikipedia article
type QuizResponse struct {
	ID            string                 `json:"id"`
	URL           string                 `json:"url"`
	Title         string                 `json:"title"`
	CreatedAt     time.Time              `json:"created_at"`
	Summary       string                 `json:"summary"`
	KeyEntities   KeyEntitiesResponse    `json:"key_entities"`
	Sections      []string               `json:"sections"`
	Quiz          []QuizQuestionResponse `json:"quiz"`
	RelatedTopics []string               `json:"related_topics"`
}

// HistoryItemResponse represents one entry in the generation history
type HistoryItemResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
