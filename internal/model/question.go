package model

import (
	"github.com/google/uuid"
)

// Question is a single MCQ from the question corpus. CorrectOption is a
// 0-based index into Options; source material counts options from 1 and
// is normalized at ingest time (cmd/seed).
type Question struct {
	ID             uuid.UUID `json:"id"`
	Text           string    `json:"text"`
	Options        []string  `json:"options"`
	CorrectOption  int       `json:"correct_option"`
	Subject        string    `json:"subject"`
	Module         string    `json:"module,omitempty"`
	Subtopic       string    `json:"subtopic,omitempty"`
	Source         string    `json:"source,omitempty"`
	Difficulty     string    `json:"difficulty,omitempty"`
	CognitiveSkill string    `json:"cognitive_skill,omitempty"`
	Keywords       string    `json:"keywords,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// QuestionView is the question payload exposed to an in-progress session.
// It never carries the correct option.
type QuestionView struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	Subject  string    `json:"subject"`
	Subtopic string    `json:"subtopic,omitempty"`
	Source   string    `json:"source,omitempty"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// View projects a Question into its session-safe form.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:       q.ID,
		Text:     q.Text,
		Options:  q.Options,
		Subject:  q.Subject,
		Subtopic: q.Subtopic,
		Source:   q.Source,
		ImageURL: q.ImageURL,
	}
}
