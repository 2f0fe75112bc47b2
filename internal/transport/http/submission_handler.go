package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"survey-quiz-service/internal/app"
)

// SubmissionHandler accepts answer batches and serves per-user reports.
type SubmissionHandler struct {
	submissions *app.SubmissionService
	reports     *app.ReportService
}

func NewSubmissionHandler(submissions *app.SubmissionService, reports *app.ReportService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, reports: reports}
}

// Submit stores a batch of answers for one user. Any invalid answer rejects
// the whole batch with 400.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := h.submissions.Submit(c.Request.Context(), req.toDomain())
	if err != nil {
		respondValidationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UserResults returns the report of the user named in the path.
func (h *SubmissionHandler) UserResults(c *gin.Context) {
	report, err := h.reports.UserReport(c.Request.Context(), c.Param("user"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
