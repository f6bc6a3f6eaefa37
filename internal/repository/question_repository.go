package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/neetpg-backend/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("resource not found")

const questionColumns = `id, question_text, options, correct_option, subject, module, subtopic,
	 source, difficulty, cognitive_skill, keywords, image_url`

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListAll retrieves the full question corpus. Pools for new sessions are
// built in memory from this set.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY subject, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// Search retrieves a page of questions filtered by subject, source and a
// keyword matched against the question text and keywords.
func (r *QuestionRepository) Search(ctx context.Context, subject, source, keyword string, page, perPage int) ([]model.Question, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions
		 WHERE ($1 = '' OR subject = $1)
		   AND ($2 = '' OR source = $2)
		   AND ($3 = '' OR question_text ILIKE '%' || $3 || '%' OR keywords ILIKE '%' || $3 || '%')`,
		subject, source, keyword,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions
		 WHERE ($1 = '' OR subject = $1)
		   AND ($2 = '' OR source = $2)
		   AND ($3 = '' OR question_text ILIKE '%' || $3 || '%' OR keywords ILIKE '%' || $3 || '%')
		 ORDER BY subject, id
		 LIMIT $4 OFFSET $5`,
		subject, source, keyword, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	return questions, total, err
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var q model.Question
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	).Scan(
		&q.ID, &q.Text, &q.Options, &q.CorrectOption, &q.Subject, &q.Module, &q.Subtopic,
		&q.Source, &q.Difficulty, &q.CognitiveSkill, &q.Keywords, &q.ImageURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// BulkInsert loads questions in a single batched round-trip. Used by the seeder.
func (r *QuestionRepository) BulkInsert(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(`
			INSERT INTO questions (
				id, question_text, options, correct_option, subject, module, subtopic,
				source, difficulty, cognitive_skill, keywords, image_url
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING`,
			q.ID, q.Text, q.Options, q.CorrectOption, q.Subject, q.Module, q.Subtopic,
			q.Source, q.Difficulty, q.CognitiveSkill, q.Keywords, q.ImageURL,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range questions {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(
			&q.ID, &q.Text, &q.Options, &q.CorrectOption, &q.Subject, &q.Module, &q.Subtopic,
			&q.Source, &q.Difficulty, &q.CognitiveSkill, &q.Keywords, &q.ImageURL,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
