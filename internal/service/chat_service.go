package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/rs/zerolog"
)

// ErrChatUnavailable is returned when the upstream model cannot be reached
// or returns an unusable response.
var ErrChatUnavailable = errors.New("chat completion unavailable")

const chatSystemPrompt = "You are a concise medical exam tutor for NEET-PG aspirants. " +
	"Answer with high-yield facts, mnemonics where helpful, and keep explanations short. " +
	"Decline questions unrelated to medicine."

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required,max=4000"`
}

// ChatRequest is the client payload for the study assistant.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,max=20,dive"`
}

// ChatService proxies study-assistant conversations to an OpenAI-compatible
// completion endpoint. The API key never reaches the client.
type ChatService struct {
	cfg    *config.Config
	client *http.Client
	log    zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(cfg *config.Config, log zerolog.Logger) *ChatService {
	return &ChatService{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.ChatTimeout,
		},
		log: log.With().Str("component", "chat_service").Logger(),
	}
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation upstream and returns the assistant reply.
func (s *ChatService) Complete(ctx context.Context, req *ChatRequest) (string, error) {
	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(completionRequest{
		Model:    s.cfg.GroqModel,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.GroqAPIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.log.Error().Err(err).Msg("Upstream request failed")
		return "", ErrChatUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Error().Int("status", resp.StatusCode).Msg("Upstream returned non-200")
		return "", fmt.Errorf("%w: status %d", ErrChatUnavailable, resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrChatUnavailable
	}

	return parsed.Choices[0].Message.Content, nil
}
