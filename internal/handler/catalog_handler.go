package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/medprep/neetpg-backend/internal/response"
)

// CatalogHandler serves the static study catalog: subjects with their
// modules and subtopics, plus the filter option lists.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetSubjects godoc
// GET /api/v1/catalog/subjects
func (h *CatalogHandler) GetSubjects(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"subjects": model.CatalogSubjects})
}

// GetFilterOptions godoc
// GET /api/v1/catalog/filters
func (h *CatalogHandler) GetFilterOptions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"difficulties":     model.DifficultyOptions,
		"cognitive_skills": model.CognitiveSkillOptions,
		"sources":          model.QuestionSources,
	})
}
