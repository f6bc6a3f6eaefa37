package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
	"github.com/medprep/neetpg-backend/internal/response"
	"github.com/medprep/neetpg-backend/internal/service"
)

type FlashcardHandler struct {
	flashcardService *service.FlashcardService
}

func NewFlashcardHandler(flashcardService *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcardService: flashcardService}
}

// ListDecks godoc
// GET /api/v1/flashcards/decks
func (h *FlashcardHandler) ListDecks(c *gin.Context) {
	decks, err := h.flashcardService.ListDecks(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if decks == nil {
		decks = []model.FlashcardDeck{}
	}
	response.Success(c, http.StatusOK, gin.H{"decks": decks})
}

// ListCards godoc
// GET /api/v1/flashcards/decks/:deck_id/cards
func (h *FlashcardHandler) ListCards(c *gin.Context) {
	deckID, err := uuid.Parse(c.Param("deck_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cards, err := h.flashcardService.ListCards(c.Request.Context(), deckID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if cards == nil {
		cards = []model.Flashcard{}
	}
	response.Success(c, http.StatusOK, gin.H{"cards": cards})
}
