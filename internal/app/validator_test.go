package app_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func colorQuestion(t domain.AnswerType) domain.Question {
	return domain.Question{
		ID:     7,
		QuizID: 1,
		Text:   "Pick colors",
		Type:   t,
		Options: []domain.QuestionOption{
			{ID: 10, QuestionID: 7, Name: "red"},
			{ID: 11, QuestionID: 7, Name: "green"},
			{ID: 12, QuestionID: 7, Name: "blue"},
		},
	}
}

func TestValidateAnswerRules(t *testing.T) {
	textQuestion := domain.Question{ID: 3, QuizID: 1, Text: "Why?", Type: domain.AnswerText, Options: []domain.QuestionOption{}}

	cases := []struct {
		name     string
		question domain.Question
		answer   domain.AnswerSubmission
		wantErr  error
	}{
		{"text ok", textQuestion, domain.AnswerSubmission{QuestionID: 3, Text: strPtr("because")}, nil},
		{"text missing", textQuestion, domain.AnswerSubmission{QuestionID: 3}, domain.ErrEmptyAnswerText},
		{"text empty", textQuestion, domain.AnswerSubmission{QuestionID: 3, Text: strPtr("")}, domain.ErrEmptyAnswerText},
		{"text whitespace", textQuestion, domain.AnswerSubmission{QuestionID: 3, Text: strPtr("  \t")}, domain.ErrEmptyAnswerText},
		{"text with selection", textQuestion, domain.AnswerSubmission{QuestionID: 3, Text: strPtr("x"), SelectedOptionIDs: []int64{10}}, domain.ErrOptionsNotAllowed},
		{"one ok", colorQuestion(domain.AnswerOneSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{11}}, nil},
		{"one none", colorQuestion(domain.AnswerOneSelected), domain.AnswerSubmission{QuestionID: 7}, domain.ErrNoOptionsSelected},
		{"one too many", colorQuestion(domain.AnswerOneSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{10, 11}}, domain.ErrTooManyOptionsSelected},
		{"one duplicate collapses", colorQuestion(domain.AnswerOneSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{10, 10}}, nil},
		{"one foreign option", colorQuestion(domain.AnswerOneSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{99}}, domain.ErrOptionNotOwnedByQuestion},
		{"some ok", colorQuestion(domain.AnswerSomeSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{12, 10}}, nil},
		{"some empty", colorQuestion(domain.AnswerSomeSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{}}, domain.ErrNoOptionsSelected},
		{"some foreign option", colorQuestion(domain.AnswerSomeSelected), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{10, 42}}, domain.ErrOptionNotOwnedByQuestion},
		{"unknown type", colorQuestion("answer_maybe"), domain.AnswerSubmission{QuestionID: 7, SelectedOptionIDs: []int64{10}}, domain.ErrUnknownAnswerType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := app.ValidateAnswer(tc.question, tc.answer)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAnswerNormalizes(t *testing.T) {
	got, err := app.ValidateAnswer(colorQuestion(domain.AnswerSomeSelected), domain.AnswerSubmission{
		QuestionID:        7,
		Text:              strPtr("ignored"),
		SelectedOptionIDs: []int64{12, 10, 12},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Text != nil {
		t.Fatalf("expected text to be dropped, got %q", *got.Text)
	}
	if !reflect.DeepEqual(got.SelectedOptionIDs, []int64{12, 10}) {
		t.Fatalf("expected submission order without duplicates, got %v", got.SelectedOptionIDs)
	}

	text, err := app.ValidateAnswer(domain.Question{ID: 3, Type: domain.AnswerText}, domain.AnswerSubmission{QuestionID: 3, Text: strPtr(" hi ")})
	if err != nil {
		t.Fatalf("validate text: %v", err)
	}
	if text.Text == nil || *text.Text != " hi " || len(text.SelectedOptionIDs) != 0 {
		t.Fatalf("unexpected normalized text answer: %+v", text)
	}
}

func TestCheckOptionsForType(t *testing.T) {
	cases := []struct {
		name    string
		typ     domain.AnswerType
		options []string
		wantErr error
	}{
		{"text without options", domain.AnswerText, nil, nil},
		{"text with empty list", domain.AnswerText, []string{}, domain.ErrOptionsNotAllowed},
		{"text with options", domain.AnswerText, []string{"a"}, domain.ErrOptionsNotAllowed},
		{"one with options", domain.AnswerOneSelected, []string{"a", "b"}, nil},
		{"some without options", domain.AnswerSomeSelected, nil, domain.ErrOptionsRequired},
		{"some with blank option", domain.AnswerSomeSelected, []string{"a", " "}, domain.ErrOptionsRequired},
		{"unknown type", "answer_maybe", nil, domain.ErrUnknownAnswerType},
		{"option at length limit", domain.AnswerOneSelected, []string{strings.Repeat("é", domain.MaxNameLength)}, nil},
		{"option over length limit", domain.AnswerOneSelected, []string{"a", strings.Repeat("x", domain.MaxNameLength+1)}, domain.ErrOptionNameTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := app.CheckOptionsForType(tc.typ, tc.options)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
