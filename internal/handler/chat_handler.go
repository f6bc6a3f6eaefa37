package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medprep/neetpg-backend/internal/response"
	"github.com/medprep/neetpg-backend/internal/service"
	"github.com/medprep/neetpg-backend/internal/validator"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Complete godoc
// POST /api/v1/chat
// Proxies the study-assistant conversation to the completion provider.
func (h *ChatHandler) Complete(c *gin.Context) {
	var req service.ChatRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reply, err := h.chatService.Complete(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrChatUnavailable) {
			response.Fail(c, http.StatusBadGateway, response.ErrChatUnavailable)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reply": reply})
}
