package app

import (
	"strings"
	"unicode/utf8"

	"survey-quiz-service/internal/domain"
)

// ValidateAnswer checks one submitted answer against its resolved question and
// returns the normalized submission. Rules short-circuit on the first failure.
//
// Normalization collapses repeated option IDs (first occurrence wins) and drops
// the text of answers to selectable questions.
func ValidateAnswer(question domain.Question, submission domain.AnswerSubmission) (domain.AnswerSubmission, error) {
	selected := uniqueIDs(submission.SelectedOptionIDs)

	switch question.Type {
	case domain.AnswerText:
		if submission.Text == nil || strings.TrimSpace(*submission.Text) == "" {
			return domain.AnswerSubmission{}, domain.ErrEmptyAnswerText
		}
		if len(selected) > 0 {
			return domain.AnswerSubmission{}, domain.ErrOptionsNotAllowed
		}
		text := *submission.Text
		return domain.AnswerSubmission{
			QuestionID:        question.ID,
			Text:              &text,
			SelectedOptionIDs: []int64{},
		}, nil
	case domain.AnswerOneSelected, domain.AnswerSomeSelected:
		if len(selected) == 0 {
			return domain.AnswerSubmission{}, domain.ErrNoOptionsSelected
		}
		if question.Type == domain.AnswerOneSelected && len(selected) > 1 {
			return domain.AnswerSubmission{}, domain.ErrTooManyOptionsSelected
		}
	default:
		return domain.AnswerSubmission{}, domain.ErrUnknownAnswerType
	}

	for _, optionID := range selected {
		if !question.HasOption(optionID) {
			return domain.AnswerSubmission{}, domain.ErrOptionNotOwnedByQuestion
		}
	}

	return domain.AnswerSubmission{
		QuestionID:        question.ID,
		SelectedOptionIDs: selected,
	}, nil
}

// CheckOptionsForType enforces that selectable questions carry options and
// text questions do not. A nil options slice means none were supplied; an
// empty non-nil slice counts as supplied.
func CheckOptionsForType(answerType domain.AnswerType, options []string) error {
	if !answerType.Valid() {
		return domain.ErrUnknownAnswerType
	}
	if !answerType.Selectable() {
		if options != nil {
			return domain.ErrOptionsNotAllowed
		}
		return nil
	}
	if len(options) == 0 {
		return domain.ErrOptionsRequired
	}
	for _, name := range options {
		if strings.TrimSpace(name) == "" {
			return domain.ErrOptionsRequired
		}
		if err := CheckOptionName(name); err != nil {
			return err
		}
	}
	return nil
}

// CheckOptionName rejects option names that do not fit the name column once
// trimmed.
func CheckOptionName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > domain.MaxNameLength {
		return domain.ErrOptionNameTooLong
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
