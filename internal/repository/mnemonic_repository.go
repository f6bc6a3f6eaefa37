package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/neetpg-backend/internal/model"
)

// MnemonicRepository handles community mnemonic data access.
type MnemonicRepository struct {
	pool *pgxpool.Pool
}

// NewMnemonicRepository creates a new MnemonicRepository.
func NewMnemonicRepository(pool *pgxpool.Pool) *MnemonicRepository {
	return &MnemonicRepository{pool: pool}
}

// List retrieves mnemonics ordered by votes descending, optionally
// filtered by subject.
func (r *MnemonicRepository) List(ctx context.Context, subject string) ([]model.Mnemonic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, author, subject, content, votes, created_at
		 FROM mnemonics
		 WHERE ($1 = '' OR subject = $1)
		 ORDER BY votes DESC, created_at DESC`, subject,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mnemonics []model.Mnemonic
	for rows.Next() {
		var m model.Mnemonic
		if err := rows.Scan(&m.ID, &m.UserID, &m.Author, &m.Subject, &m.Content, &m.Votes, &m.CreatedAt); err != nil {
			return nil, err
		}
		mnemonics = append(mnemonics, m)
	}
	return mnemonics, rows.Err()
}

// Create inserts a new mnemonic with zero votes.
func (r *MnemonicRepository) Create(ctx context.Context, m *model.Mnemonic) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO mnemonics (user_id, author, subject, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, votes, created_at`,
		m.UserID, m.Author, m.Subject, m.Content,
	).Scan(&m.ID, &m.Votes, &m.CreatedAt)
}

// Vote adjusts a mnemonic's vote count by delta (+1 or -1) and returns
// the updated row.
func (r *MnemonicRepository) Vote(ctx context.Context, id uuid.UUID, delta int) (*model.Mnemonic, error) {
	var m model.Mnemonic
	err := r.pool.QueryRow(ctx,
		`UPDATE mnemonics SET votes = votes + $2
		 WHERE id = $1
		 RETURNING id, user_id, author, subject, content, votes, created_at`,
		id, delta,
	).Scan(&m.ID, &m.UserID, &m.Author, &m.Subject, &m.Content, &m.Votes, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
