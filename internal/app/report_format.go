package app

import "survey-quiz-service/internal/domain"

// FormatReport shapes aggregated quiz groups into the public report layout.
func FormatReport(userName string, groups []QuizGroup) domain.UserReport {
	report := domain.UserReport{
		User:           userName,
		ResultsQuizzes: make([]domain.QuizResult, 0, len(groups)),
	}
	for _, group := range groups {
		questions := make([]domain.QuestionResult, 0, len(group.Entries))
		for _, entry := range group.Entries {
			selected := entry.SelectedOptions
			if selected == nil {
				selected = []string{}
			}
			questions = append(questions, domain.QuestionResult{
				ID:   entry.QuestionID,
				Text: entry.QuestionText,
				Answers: domain.AnswerResult{
					ID:             entry.AnswerID,
					Text:           entry.Text,
					AnswerSelected: selected,
				},
			})
		}
		report.ResultsQuizzes = append(report.ResultsQuizzes, domain.QuizResult{
			Quiz: domain.QuizResultDetail{
				ID:        group.QuizID,
				Name:      group.QuizName,
				Questions: questions,
			},
		})
	}
	return report
}
