package app_test

import (
	"context"
	"testing"
	"time"

	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
	"survey-quiz-service/internal/infra/memory"
)

type fixture struct {
	store       *memory.Store
	hub         *memory.ReportHub
	recorder    *countingRecorder
	catalog     *app.CatalogService
	submissions *app.SubmissionService
	reports     *app.ReportService
}

func newFixture() *fixture {
	store := memory.NewStore()
	cache := memory.NewQuestionCache(store, 5*time.Minute)
	hub := memory.NewReportHub()
	recorder := &countingRecorder{}
	return &fixture{
		store:       store,
		hub:         hub,
		recorder:    recorder,
		catalog:     app.NewCatalogService(store, cache, nil),
		submissions: app.NewSubmissionService(cache, store, hub, recorder, nil),
		reports:     app.NewReportService(store, store, hub),
	}
}

func (f *fixture) quiz(t *testing.T, name string) domain.Quiz {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	quiz, err := f.catalog.CreateQuiz(context.Background(), domain.Quiz{
		Name:       name,
		StartDate:  start,
		FinishDate: start.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func (f *fixture) question(t *testing.T, quizID int64, text string, typ domain.AnswerType, options ...string) domain.Question {
	t.Helper()
	question, err := f.catalog.CreateQuestion(context.Background(), domain.NewQuestion{
		QuizID:  quizID,
		Text:    text,
		Type:    typ,
		Options: options,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return question
}

type countingRecorder struct {
	accepted int
	answers  int
	rejected []string
}

func (r *countingRecorder) SubmissionAccepted(answers int) {
	r.accepted++
	r.answers += answers
}

func (r *countingRecorder) SubmissionRejected(code string) {
	r.rejected = append(r.rejected, code)
}
