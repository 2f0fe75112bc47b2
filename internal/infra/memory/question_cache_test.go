package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	loader := &countingLoader{QuestionRepository: seededStore(t)}
	cache := NewQuestionCache(loader, time.Minute)

	if _, err := cache.GetQuestion(context.Background(), 1); err != nil {
		t.Fatalf("get question: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := cache.GetQuestion(context.Background(), 1); err != nil {
		t.Fatalf("get question 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}

	cache.Invalidate(context.Background(), 1)
	if _, err := cache.GetQuestion(context.Background(), 1); err != nil {
		t.Fatalf("get question 3: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.count())
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	loader := &countingLoader{QuestionRepository: seededStore(t)}
	cache := NewQuestionCache(loader, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	_, _ = cache.GetQuestion(context.Background(), 1)
	now = now.Add(2 * time.Minute)
	_, _ = cache.GetQuestion(context.Background(), 1)
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestQuestionCacheDoesNotCacheMisses(t *testing.T) {
	loader := &countingLoader{QuestionRepository: seededStore(t)}
	cache := NewQuestionCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetQuestion(context.Background(), 99); !errors.Is(err, domain.ErrQuestionNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if loader.count() != 2 {
		t.Fatalf("expected every miss to reach the loader, got %d", loader.count())
	}
}

type countingLoader struct {
	app.QuestionRepository
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionRepository.GetQuestion(ctx, questionID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// seededStore holds quiz 1 with question 1 ("Pick", two options).
func seededStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	store := NewStore()
	quiz, err := store.CreateQuiz(ctx, domain.Quiz{Name: "Seed"})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if _, err := store.CreateQuestion(ctx, domain.Question{
		QuizID:  quiz.ID,
		Text:    "Pick",
		Type:    domain.AnswerOneSelected,
		Options: []domain.QuestionOption{{Name: "yes"}, {Name: "no"}},
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return store
}
