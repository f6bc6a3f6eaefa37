package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/neetpg-backend/internal/model"
)

// AttemptRepository handles quiz attempt persistence and aggregation.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Insert persists a single attempt.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (
			user_id, mode, subject, score, correct, incorrect, attempted,
			total_questions, time_taken_seconds, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		a.UserID, a.Mode, a.Subject, a.Score, a.Correct, a.Incorrect, a.Attempted,
		a.TotalQuestions, a.TimeTakenSeconds, a.SubmittedAt,
	).Scan(&a.ID)
}

// BulkInsert persists a batch of attempts in a single UNNEST round-trip.
func (r *AttemptRepository) BulkInsert(ctx context.Context, batch []*model.Attempt) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	userIDs := make([]string, 0, n)
	modes := make([]string, 0, n)
	subjects := make([]string, 0, n)
	scores := make([]int, 0, n)
	corrects := make([]int, 0, n)
	incorrects := make([]int, 0, n)
	attempteds := make([]int, 0, n)
	totals := make([]int, 0, n)
	timeTakens := make([]int, 0, n)
	submittedAts := make([]time.Time, 0, n)

	for _, a := range batch {
		userIDs = append(userIDs, a.UserID)
		modes = append(modes, a.Mode)
		subjects = append(subjects, a.Subject)
		scores = append(scores, a.Score)
		corrects = append(corrects, a.Correct)
		incorrects = append(incorrects, a.Incorrect)
		attempteds = append(attempteds, a.Attempted)
		totals = append(totals, a.TotalQuestions)
		timeTakens = append(timeTakens, a.TimeTakenSeconds)
		submittedAts = append(submittedAts, a.SubmittedAt)
	}

	query := `
		INSERT INTO quiz_attempts (
			user_id, mode, subject, score, correct, incorrect, attempted,
			total_questions, time_taken_seconds, submitted_at
		)
		SELECT
			u.user_id, u.mode, u.subject, u.score, u.correct, u.incorrect, u.attempted,
			u.total_questions, u.time_taken_seconds, u.submitted_at
		FROM UNNEST(
			$1::text[],
			$2::text[],
			$3::text[],
			$4::int[],
			$5::int[],
			$6::int[],
			$7::int[],
			$8::int[],
			$9::int[],
			$10::timestamptz[]
		) AS u (user_id, mode, subject, score, correct, incorrect, attempted,
		        total_questions, time_taken_seconds, submitted_at)
	`

	_, err := r.pool.Exec(ctx, query,
		userIDs, modes, subjects, scores, corrects, incorrects, attempteds,
		totals, timeTakens, submittedAts,
	)
	return err
}

// ListByUser retrieves a user's attempt history, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, mode, subject, score, correct, incorrect, attempted,
		        total_questions, time_taken_seconds, submitted_at
		 FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY submitted_at DESC
		 LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Mode, &a.Subject, &a.Score, &a.Correct, &a.Incorrect,
			&a.Attempted, &a.TotalQuestions, &a.TimeTakenSeconds, &a.SubmittedAt,
		); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// AggregateByUser computes per-subject accuracy across a user's attempts.
func (r *AttemptRepository) AggregateByUser(ctx context.Context, userID string) ([]model.SubjectStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subject,
		        COUNT(*),
		        COALESCE(SUM(correct), 0),
		        COALESCE(SUM(incorrect), 0)
		 FROM quiz_attempts
		 WHERE user_id = $1 AND subject <> ''
		 GROUP BY subject
		 ORDER BY subject`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.SubjectStats
	for rows.Next() {
		var s model.SubjectStats
		if err := rows.Scan(&s.Subject, &s.Attempts, &s.Correct, &s.Incorrect); err != nil {
			return nil, err
		}
		if attempted := s.Correct + s.Incorrect; attempted > 0 {
			s.Accuracy = float64(s.Correct) / float64(attempted) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
