package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
)

// MnemonicService handles the community mnemonic wall.
type MnemonicService struct {
	repo *repository.MnemonicRepository
}

// NewMnemonicService creates a new MnemonicService.
func NewMnemonicService(repo *repository.MnemonicRepository) *MnemonicService {
	return &MnemonicService{repo: repo}
}

// List returns mnemonics ordered by votes, optionally filtered by subject.
func (s *MnemonicService) List(ctx context.Context, subject string) ([]model.Mnemonic, error) {
	return s.repo.List(ctx, subject)
}

// Create posts a new mnemonic on behalf of the authenticated user.
func (s *MnemonicService) Create(ctx context.Context, userID, author string, req *model.CreateMnemonicRequest) (*model.Mnemonic, error) {
	m := &model.Mnemonic{
		UserID:  userID,
		Author:  author,
		Subject: req.Subject,
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Upvote increments a mnemonic's vote count.
func (s *MnemonicService) Upvote(ctx context.Context, id uuid.UUID) (*model.Mnemonic, error) {
	return s.repo.Vote(ctx, id, 1)
}

// Downvote decrements a mnemonic's vote count.
func (s *MnemonicService) Downvote(ctx context.Context, id uuid.UUID) (*model.Mnemonic, error) {
	return s.repo.Vote(ctx, id, -1)
}
