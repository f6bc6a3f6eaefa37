package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/repository"
	"github.com/medprep/neetpg-backend/internal/response"
)

const defaultPerPage = 20

type QuestionHandler struct {
	questions *repository.QuestionRepository
}

func NewQuestionHandler(questions *repository.QuestionRepository) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Search godoc
// GET /api/v1/questions?subject=...&source=...&q=...&page=1&per_page=20
// Browse view of the question bank. Correct options are stripped.
func (h *QuestionHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > 100 {
		perPage = defaultPerPage
	}

	questions, total, err := h.questions.Search(c.Request.Context(),
		c.Query("subject"), c.Query("source"), c.Query("q"), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]model.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, q.View())
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"questions": views}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetByID godoc
// GET /api/v1/questions/:id
// Full question including the correct option, for post-test review.
func (h *QuestionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	q, err := h.questions.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": q})
}
