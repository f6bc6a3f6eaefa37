package service

import (
	"context"

	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
)

const historyLimit = 50

// PerformanceReport aggregates a user's attempt history with per-subject
// accuracy for the dashboard.
type PerformanceReport struct {
	Attempts     []model.Attempt      `json:"attempts"`
	SubjectStats []model.SubjectStats `json:"subject_stats"`
}

// AnalyticsService computes per-user performance views over past attempts.
type AnalyticsService struct {
	repo *repository.AttemptRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo *repository.AttemptRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// History returns the user's most recent attempts.
func (s *AnalyticsService) History(ctx context.Context, userID string) ([]model.Attempt, error) {
	return s.repo.ListByUser(ctx, userID, historyLimit)
}

// Report returns attempt history alongside per-subject accuracy.
func (s *AnalyticsService) Report(ctx context.Context, userID string) (*PerformanceReport, error) {
	attempts, err := s.repo.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.AggregateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PerformanceReport{Attempts: attempts, SubjectStats: stats}, nil
}
