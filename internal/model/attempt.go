package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is a completed quiz session's result row, persisted after submit.
// The row is derived from the engine's results summary and is never the
// source of truth for scoring.
type Attempt struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"user_id"`
	Mode             string    `json:"mode"`
	Subject          string    `json:"subject,omitempty"`
	Score            int       `json:"score"`
	Correct          int       `json:"correct"`
	Incorrect        int       `json:"incorrect"`
	Attempted        int       `json:"attempted"`
	TotalQuestions   int       `json:"total_questions"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// SubjectStats aggregates attempt accuracy for one subject.
type SubjectStats struct {
	Subject   string  `json:"subject"`
	Attempts  int     `json:"attempts"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"`
}
