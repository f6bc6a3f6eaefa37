package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medprep/neetpg-backend/internal/middleware"
	"github.com/medprep/neetpg-backend/internal/quiz"
	"github.com/medprep/neetpg-backend/internal/response"
	"github.com/medprep/neetpg-backend/internal/service"
	"github.com/medprep/neetpg-backend/internal/validator"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Start godoc
// POST /api/v1/quiz/start
func (h *QuizHandler) Start(c *gin.Context) {
	var req service.StartRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.Start(c.Request.Context(), userID(c), req)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": view})
}

// Resume godoc
// POST /api/v1/quiz/resume
func (h *QuizHandler) Resume(c *gin.Context) {
	view, err := h.quizService.Resume(c.Request.Context(), userID(c))
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// State godoc
// GET /api/v1/quiz/state
func (h *QuizHandler) State(c *gin.Context) {
	view, err := h.quizService.State(userID(c))
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

type answerRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Option     *int   `json:"option" binding:"required,min=0"`
}

// Answer godoc
// POST /api/v1/quiz/answer
func (h *QuizHandler) Answer(c *gin.Context) {
	var req answerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	qid, err := uuid.Parse(req.QuestionID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := h.quizService.Answer(userID(c), qid, *req.Option)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// ClearAnswer godoc
// POST /api/v1/quiz/questions/:question_id/clear
func (h *QuizHandler) ClearAnswer(c *gin.Context) {
	h.questionAction(c, h.quizService.ClearAnswer)
}

// ToggleMark godoc
// POST /api/v1/quiz/questions/:question_id/mark
func (h *QuizHandler) ToggleMark(c *gin.Context) {
	h.questionAction(c, h.quizService.ToggleMark)
}

// ToggleBookmark godoc
// POST /api/v1/quiz/questions/:question_id/bookmark
func (h *QuizHandler) ToggleBookmark(c *gin.Context) {
	h.questionAction(c, h.quizService.ToggleBookmark)
}

type goToRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// GoTo godoc
// POST /api/v1/quiz/goto
func (h *QuizHandler) GoTo(c *gin.Context) {
	var req goToRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.quizService.GoTo(userID(c), *req.Index)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Pause godoc
// POST /api/v1/quiz/pause
func (h *QuizHandler) Pause(c *gin.Context) {
	if err := h.quizService.Pause(c.Request.Context(), userID(c)); err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "session saved"})
}

// Submit godoc
// POST /api/v1/quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	results, err := h.quizService.Submit(c.Request.Context(), userID(c))
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"results":    results,
		"percentage": results.Percentage(),
	})
}

// Results godoc
// GET /api/v1/quiz/results
// Summary of the user's most recently submitted session.
func (h *QuizHandler) Results(c *gin.Context) {
	results := h.quizService.Results(userID(c))
	if results == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"results":    results,
		"percentage": results.Percentage(),
	})
}

func (h *QuizHandler) questionAction(c *gin.Context, action func(string, uuid.UUID) (*service.StateView, error)) {
	qid, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	view, err := action(userID(c), qid)
	if err != nil {
		failQuiz(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": view})
}

func userID(c *gin.Context) string {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return ""
	}
	return claims.UserID()
}

// failQuiz maps session engine sentinels onto API error codes.
func failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionConflict):
		response.Fail(c, http.StatusConflict, response.ErrSessionConflict)
	case errors.Is(err, quiz.ErrSessionNotActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionNotActive)
	case errors.Is(err, quiz.ErrSessionTerminated):
		response.Fail(c, http.StatusConflict, response.ErrSessionTerminated)
	case errors.Is(err, quiz.ErrSnapshotNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSnapshotNotFound)
	case errors.Is(err, quiz.ErrInvalidSelection):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSelection)
	case errors.Is(err, quiz.ErrEmptyPool):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyPool)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
