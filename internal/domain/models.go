package domain

import "time"

// MaxNameLength is the longest quiz or option name, in characters, that
// storage accepts.
const MaxNameLength = 256

// AnswerType classifies how a question is answered.
type AnswerType string

const (
	// AnswerText expects a free-form text answer.
	AnswerText AnswerType = "answer_text"
	// AnswerOneSelected expects exactly one selected option.
	AnswerOneSelected AnswerType = "answer_one_selected"
	// AnswerSomeSelected expects one or more selected options.
	AnswerSomeSelected AnswerType = "answer_some_selected"
)

// Valid reports whether t is one of the known answer types.
func (t AnswerType) Valid() bool {
	switch t {
	case AnswerText, AnswerOneSelected, AnswerSomeSelected:
		return true
	}
	return false
}

// Selectable reports whether answers to t are made of selected options.
func (t AnswerType) Selectable() bool {
	return t == AnswerOneSelected || t == AnswerSomeSelected
}

// Quiz is a named collection of questions with a validity window.
type Quiz struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"start_date"`
	FinishDate  time.Time  `json:"finish_date"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions,omitempty"`
}

// QuizPatch carries a partial quiz update; nil fields are left untouched.
type QuizPatch struct {
	Name        *string
	StartDate   *time.Time
	FinishDate  *time.Time
	Description *string
}

// Question is one prompt within a quiz.
type Question struct {
	ID      int64            `json:"id"`
	QuizID  int64            `json:"quiz"`
	Text    string           `json:"text"`
	Type    AnswerType       `json:"type"`
	Options []QuestionOption `json:"question_item"`
}

// HasOption reports whether optionID belongs to the question.
func (q Question) HasOption(optionID int64) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// OptionNames returns the display names of the question options in order.
func (q Question) OptionNames() []string {
	names := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		names = append(names, opt.Name)
	}
	return names
}

// NewQuestion describes a question to be created. Options is nil when the
// caller did not send any.
type NewQuestion struct {
	QuizID  int64
	Text    string
	Type    AnswerType
	Options []string
}

// QuestionPatch carries a partial question update. A non-nil Options replaces
// the whole option set.
type QuestionPatch struct {
	Text    *string
	Type    *AnswerType
	Options []string
}

// QuestionOption is one selectable choice of a question.
type QuestionOption struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question"`
	Name       string `json:"name"`
}

// User is identified by a unique name and created on first submission.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Answer is one persisted response of a user to a question.
type Answer struct {
	ID                int64   `json:"id"`
	UserID            int64   `json:"user"`
	QuestionID        int64   `json:"question"`
	Text              *string `json:"text"`
	SelectedOptionIDs []int64 `json:"answer_selected"`
}

// AnswerSubmission is one answer as sent by a client.
type AnswerSubmission struct {
	QuestionID        int64
	Text              *string
	SelectedOptionIDs []int64
}

// Submission is a batch of answers from a single user.
type Submission struct {
	User    string
	Answers []AnswerSubmission
}

// SubmissionResult is returned once a submission has been persisted.
type SubmissionResult struct {
	User    User     `json:"user"`
	Answers []Answer `json:"answers"`
}

// AnswerRecord is a flattened, report-ready row: one answer joined with its
// question, quiz and the names of the selected options.
type AnswerRecord struct {
	AnswerID        int64
	QuizID          int64
	QuizName        string
	QuestionID      int64
	QuestionText    string
	Text            *string
	SelectedOptions []string
}
