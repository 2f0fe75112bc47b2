package domain

// UserReport is the externally documented per-user report.
type UserReport struct {
	User           string       `json:"user"`
	ResultsQuizzes []QuizResult `json:"results_quizzes"`
}

type QuizResult struct {
	Quiz QuizResultDetail `json:"quiz"`
}

type QuizResultDetail struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Questions []QuestionResult `json:"questions"`
}

type QuestionResult struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Answers AnswerResult `json:"answers"`
}

type AnswerResult struct {
	ID             int64    `json:"id"`
	Text           *string  `json:"text"`
	AnswerSelected []string `json:"answer_selected"`
}
