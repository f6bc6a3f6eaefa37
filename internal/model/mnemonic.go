package model

import (
	"time"

	"github.com/google/uuid"
)

// Mnemonic is a community-contributed memory aid.
type Mnemonic struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Author    string    `json:"author"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMnemonicRequest is the payload for submitting a new mnemonic.
type CreateMnemonicRequest struct {
	Subject string `json:"subject" binding:"required,max=64"`
	Content string `json:"content" binding:"required,min=3,max=2000"`
}
