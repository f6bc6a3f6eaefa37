package model

import (
	"github.com/google/uuid"
)

// FlashcardDeck groups flashcards for one study topic.
type FlashcardDeck struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	CardCount int       `json:"card_count"`
}

// Flashcard is one cue/answer pair within a deck.
type Flashcard struct {
	ID            uuid.UUID `json:"id"`
	DeckID        uuid.UUID `json:"deck_id"`
	Cue           string    `json:"cue"`
	Answer        string    `json:"answer"`
	HighYieldNote string    `json:"high_yield_note,omitempty"`
	Subject       string    `json:"subject"`
	Tags          []string  `json:"tags,omitempty"`
}
