package postgres

import (
	"time"

	"github.com/uptrace/bun"
	"survey-quiz-service/internal/domain"
)

type quizModel struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID          int64            `bun:"id,pk,autoincrement"`
	Name        string           `bun:"name,notnull"`
	StartDate   time.Time        `bun:"start_date,notnull"`
	FinishDate  time.Time        `bun:"finish_date,notnull"`
	Description string           `bun:"description,notnull"`
	Questions   []*questionModel `bun:"rel:has-many,join:id=quiz_id"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID      int64          `bun:"id,pk,autoincrement"`
	QuizID  int64          `bun:"quiz_id,notnull"`
	Text    string         `bun:"text,notnull"`
	Type    string         `bun:"type,notnull"`
	Options []*optionModel `bun:"rel:has-many,join:id=question_id"`
}

type optionModel struct {
	bun.BaseModel `bun:"table:question_options,alias:o"`

	ID         int64  `bun:"id,pk,autoincrement"`
	QuestionID int64  `bun:"question_id,notnull"`
	Name       string `bun:"name,notnull"`
}

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

type answerModel struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID         int64   `bun:"id,pk,autoincrement"`
	UserID     int64   `bun:"user_id,notnull"`
	QuestionID int64   `bun:"question_id,notnull"`
	Text       *string `bun:"text"`
}

type answerOptionModel struct {
	bun.BaseModel `bun:"table:answer_options,alias:ao"`

	AnswerID int64 `bun:"answer_id,pk"`
	OptionID int64 `bun:"option_id,pk"`
	Position int   `bun:"position,notnull"`
}

func (m *quizModel) toDomain() domain.Quiz {
	quiz := domain.Quiz{
		ID:          m.ID,
		Name:        m.Name,
		StartDate:   m.StartDate,
		FinishDate:  m.FinishDate,
		Description: m.Description,
	}
	if m.Questions != nil {
		quiz.Questions = make([]domain.Question, 0, len(m.Questions))
		for _, q := range m.Questions {
			quiz.Questions = append(quiz.Questions, q.toDomain())
		}
	}
	return quiz
}

func (m *questionModel) toDomain() domain.Question {
	question := domain.Question{
		ID:      m.ID,
		QuizID:  m.QuizID,
		Text:    m.Text,
		Type:    domain.AnswerType(m.Type),
		Options: make([]domain.QuestionOption, 0, len(m.Options)),
	}
	for _, opt := range m.Options {
		question.Options = append(question.Options, opt.toDomain())
	}
	return question
}

func (m *optionModel) toDomain() domain.QuestionOption {
	return domain.QuestionOption{ID: m.ID, QuestionID: m.QuestionID, Name: m.Name}
}

func quizFromDomain(quiz domain.Quiz) *quizModel {
	return &quizModel{
		ID:          quiz.ID,
		Name:        quiz.Name,
		StartDate:   quiz.StartDate,
		FinishDate:  quiz.FinishDate,
		Description: quiz.Description,
	}
}
