package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
)

// CatalogHandler serves the administrative quiz, question and option endpoints.
type CatalogHandler struct {
	catalog *app.CatalogService
}

func NewCatalogHandler(catalog *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) CreateQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	quiz, err := h.catalog.CreateQuiz(c.Request.Context(), domain.Quiz{
		Name:        req.Name,
		StartDate:   req.StartDate,
		FinishDate:  req.FinishDate,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *CatalogHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.catalog.ListQuizzes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *CatalogHandler) GetQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	quiz, err := h.catalog.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz serves both PUT and PATCH; absent fields are left untouched.
func (h *CatalogHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req quizPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	quiz, err := h.catalog.UpdateQuiz(c.Request.Context(), quizID, domain.QuizPatch{
		Name:        req.Name,
		StartDate:   req.StartDate,
		FinishDate:  req.FinishDate,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *CatalogHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) CreateQuestion(c *gin.Context) {
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	question, err := h.catalog.CreateQuestion(c.Request.Context(), domain.NewQuestion{
		QuizID:  quizID,
		Text:    req.Text,
		Type:    req.Type,
		Options: req.QuestionItem,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *CatalogHandler) GetQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	question, err := h.catalog.GetQuestion(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *CatalogHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	question, err := h.catalog.UpdateQuestion(c.Request.Context(), questionID, domain.QuestionPatch{
		Text:    req.Text,
		Type:    req.Type,
		Options: req.QuestionItem,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *CatalogHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) UpdateOption(c *gin.Context) {
	optionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req optionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	option, err := h.catalog.RenameOption(c.Request.Context(), optionID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

func (h *CatalogHandler) DeleteOption(c *gin.Context) {
	optionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteOption(c.Request.Context(), optionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, fmt.Errorf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}
