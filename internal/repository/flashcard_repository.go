package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/neetpg-backend/internal/model"
)

// FlashcardRepository handles flashcard deck and card data access.
type FlashcardRepository struct {
	pool *pgxpool.Pool
}

// NewFlashcardRepository creates a new FlashcardRepository.
func NewFlashcardRepository(pool *pgxpool.Pool) *FlashcardRepository {
	return &FlashcardRepository{pool: pool}
}

// ListDecks retrieves all decks with their card counts.
func (r *FlashcardRepository) ListDecks(ctx context.Context) ([]model.FlashcardDeck, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.title, d.subject, COUNT(f.id)
		 FROM flashcard_decks d
		 LEFT JOIN flashcards f ON f.deck_id = d.id
		 GROUP BY d.id, d.title, d.subject
		 ORDER BY d.title`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []model.FlashcardDeck
	for rows.Next() {
		var d model.FlashcardDeck
		if err := rows.Scan(&d.ID, &d.Title, &d.Subject, &d.CardCount); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// ListCards retrieves all cards in a deck.
// Returns ErrNotFound if the deck does not exist.
func (r *FlashcardRepository) ListCards(ctx context.Context, deckID uuid.UUID) ([]model.Flashcard, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM flashcard_decks WHERE id = $1)`, deckID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, deck_id, cue, answer, high_yield_note, subject, tags
		 FROM flashcards WHERE deck_id = $1
		 ORDER BY id`, deckID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []model.Flashcard
	for rows.Next() {
		var f model.Flashcard
		if err := rows.Scan(&f.ID, &f.DeckID, &f.Cue, &f.Answer, &f.HighYieldNote, &f.Subject, &f.Tags); err != nil {
			return nil, err
		}
		cards = append(cards, f)
	}
	return cards, rows.Err()
}

// CreateDeck inserts a new deck.
func (r *FlashcardRepository) CreateDeck(ctx context.Context, d *model.FlashcardDeck) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO flashcard_decks (title, subject) VALUES ($1, $2) RETURNING id`,
		d.Title, d.Subject,
	).Scan(&d.ID)
}

// CreateCard inserts a new card into a deck.
func (r *FlashcardRepository) CreateCard(ctx context.Context, f *model.Flashcard) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO flashcards (deck_id, cue, answer, high_yield_note, subject, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		f.DeckID, f.Cue, f.Answer, f.HighYieldNote, f.Subject, f.Tags,
	).Scan(&f.ID)
	if err != nil && isForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23503"
	}
	return false
}
