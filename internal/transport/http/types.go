package http

import (
	"bytes"
	"encoding/json"
	"time"

	"survey-quiz-service/internal/domain"
)

type quizRequest struct {
	Name        string    `json:"name" binding:"required,notblank,max=256"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	FinishDate  time.Time `json:"finish_date" binding:"required,gtefield=StartDate"`
	Description string    `json:"description"`
}

type quizPatchRequest struct {
	Name        *string    `json:"name" binding:"omitempty,notblank,max=256"`
	StartDate   *time.Time `json:"start_date"`
	FinishDate  *time.Time `json:"finish_date"`
	Description *string    `json:"description"`
}

type questionRequest struct {
	Text         string            `json:"text" binding:"required,notblank"`
	Type         domain.AnswerType `json:"type" binding:"required"`
	QuestionItem []string          `json:"question_item" binding:"omitempty,dive,max=256"`
}

type questionPatchRequest struct {
	Text         *string            `json:"text" binding:"omitempty,notblank"`
	Type         *domain.AnswerType `json:"type"`
	QuestionItem []string           `json:"question_item" binding:"omitempty,dive,max=256"`
}

type optionRequest struct {
	Name string `json:"name" binding:"required,notblank,max=256"`
}

type submissionRequest struct {
	User      string          `json:"user" binding:"required,notblank,max=256"`
	Questions []answerRequest `json:"questions" binding:"required,dive"`
}

type answerRequest struct {
	Question       int64           `json:"question" binding:"required"`
	Text           json.RawMessage `json:"text"`
	AnswerSelected []int64         `json:"answer_selected"`
}

func (r submissionRequest) toDomain() domain.Submission {
	answers := make([]domain.AnswerSubmission, 0, len(r.Questions))
	for _, q := range r.Questions {
		answers = append(answers, domain.AnswerSubmission{
			QuestionID:        q.Question,
			Text:              decodeText(q.Text),
			SelectedOptionIDs: q.AnswerSelected,
		})
	}
	return domain.Submission{User: r.User, Answers: answers}
}

// decodeText keeps only JSON strings; null, numbers, objects and a missing
// field all read as "no text".
func decodeText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil
	}
	return &text
}
