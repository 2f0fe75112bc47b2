package app_test

import (
	"context"
	"errors"
	"testing"

	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
	"survey-quiz-service/internal/infra/memory"
)

func TestUserReportUnknownUser(t *testing.T) {
	f := newFixture()
	if _, err := f.reports.UserReport(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestUserReportGroupsByQuiz(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	q1 := f.quiz(t, "First")
	q2 := f.quiz(t, "Second")
	a := f.question(t, q1.ID, "A", domain.AnswerText)
	b := f.question(t, q2.ID, "B", domain.AnswerSomeSelected, "x", "y", "z")
	c := f.question(t, q1.ID, "C", domain.AnswerText)

	// Answers interleave quizzes; the report still has one group per quiz.
	if _, err := f.submissions.Submit(ctx, domain.Submission{
		User: "gina",
		Answers: []domain.AnswerSubmission{
			{QuestionID: a.ID, Text: strPtr("1")},
			{QuestionID: b.ID, SelectedOptionIDs: []int64{b.Options[2].ID, b.Options[0].ID}},
			{QuestionID: c.ID, Text: strPtr("3")},
		},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := f.reports.UserReport(ctx, "gina")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.ResultsQuizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %+v", report.ResultsQuizzes)
	}
	first := report.ResultsQuizzes[0].Quiz
	if first.ID != q1.ID || first.Name != "First" || len(first.Questions) != 2 {
		t.Fatalf("unexpected first quiz: %+v", first)
	}
	if first.Questions[0].ID != a.ID || first.Questions[1].ID != c.ID {
		t.Fatalf("expected answers in submission order, got %+v", first.Questions)
	}
	second := report.ResultsQuizzes[1].Quiz
	selected := second.Questions[0].Answers.AnswerSelected
	if len(selected) != 2 || selected[0] != "z" || selected[1] != "x" {
		t.Fatalf("expected selection order z,x got %v", selected)
	}
}

func TestWatchWithoutNotifier(t *testing.T) {
	store := memory.NewStore()
	reports := app.NewReportService(store, store, nil)
	if _, _, err := reports.Watch(context.Background(), "x"); err == nil {
		t.Fatalf("expected an error without a notifier")
	}
}

func TestUserReportStopsOnStreamError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	quiz := f.quiz(t, "Q")
	q := f.question(t, quiz.ID, "T", domain.AnswerText)
	if _, err := f.submissions.Submit(ctx, domain.Submission{
		User:    "hal",
		Answers: []domain.AnswerSubmission{{QuestionID: q.ID, Text: strPtr("t")}},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := f.reports.UserReport(canceled, "hal"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
