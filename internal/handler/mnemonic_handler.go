package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/middleware"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
	"github.com/medprep/neetpg-backend/internal/response"
	"github.com/medprep/neetpg-backend/internal/service"
	"github.com/medprep/neetpg-backend/internal/validator"
)

type MnemonicHandler struct {
	mnemonicService *service.MnemonicService
}

func NewMnemonicHandler(mnemonicService *service.MnemonicService) *MnemonicHandler {
	return &MnemonicHandler{mnemonicService: mnemonicService}
}

// List godoc
// GET /api/v1/mnemonics?subject=...
func (h *MnemonicHandler) List(c *gin.Context) {
	mnemonics, err := h.mnemonicService.List(c.Request.Context(), c.Query("subject"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if mnemonics == nil {
		mnemonics = []model.Mnemonic{}
	}
	response.Success(c, http.StatusOK, gin.H{"mnemonics": mnemonics})
}

// Create godoc
// POST /api/v1/mnemonics
func (h *MnemonicHandler) Create(c *gin.Context) {
	var req model.CreateMnemonicRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	m, err := h.mnemonicService.Create(c.Request.Context(), claims.UserID(), claims.Name, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"mnemonic": m})
}

// Upvote godoc
// POST /api/v1/mnemonics/:id/upvote
func (h *MnemonicHandler) Upvote(c *gin.Context) {
	h.vote(c, h.mnemonicService.Upvote)
}

// Downvote godoc
// POST /api/v1/mnemonics/:id/downvote
func (h *MnemonicHandler) Downvote(c *gin.Context) {
	h.vote(c, h.mnemonicService.Downvote)
}

func (h *MnemonicHandler) vote(c *gin.Context, fn func(context.Context, uuid.UUID) (*model.Mnemonic, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	m, err := fn(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"mnemonic": m})
}
