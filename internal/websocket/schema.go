package websocket

import "github.com/medprep/neetpg-backend/internal/quiz"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionClear    Action = "clear"
	ActionMark     Action = "mark"
	ActionBookmark Action = "bookmark"
	ActionGoTo     Action = "goto"
	ActionPause    Action = "pause"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest selects an option for a question.
type AnswerRequest struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id"`
	Option     int    `json:"option"`
}

// QuestionRequest targets a single question without extra data.
// Used by the clear, mark, and bookmark actions.
type QuestionRequest struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id"`
}

// GoToRequest moves the session cursor to a question index.
type GoToRequest struct {
	Action Action `json:"action"`
	Index  int    `json:"index"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventSubmitted Event = "submitted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// StateResponse pushes the current session view after every mutation
// and on every timer tick.
type StateResponse struct {
	Event        Event          `json:"event"`
	CurrentIndex int            `json:"current_index"`
	TimeLeft     int            `json:"time_left"`
	Palette      map[string]int `json:"palette"` // question ID → marking
}

// SubmittedResponse carries the final results once the session ends,
// whether by explicit submit or timer expiry.
type SubmittedResponse struct {
	Event   Event                `json:"event"`
	Results *quiz.ResultsSummary `json:"results"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
