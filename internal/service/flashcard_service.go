package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
)

// FlashcardService handles flashcard deck browsing.
type FlashcardService struct {
	repo *repository.FlashcardRepository
}

// NewFlashcardService creates a new FlashcardService.
func NewFlashcardService(repo *repository.FlashcardRepository) *FlashcardService {
	return &FlashcardService{repo: repo}
}

// ListDecks returns all decks with card counts.
func (s *FlashcardService) ListDecks(ctx context.Context) ([]model.FlashcardDeck, error) {
	return s.repo.ListDecks(ctx)
}

// ListCards returns the cards of one deck.
func (s *FlashcardService) ListCards(ctx context.Context, deckID uuid.UUID) ([]model.Flashcard, error) {
	return s.repo.ListCards(ctx, deckID)
}
