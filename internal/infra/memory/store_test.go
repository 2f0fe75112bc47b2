package memory

import (
	"context"
	"errors"
	"testing"

	"survey-quiz-service/internal/domain"
)

func TestSaveAnswersIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	text := "hi"
	_, err := store.SaveAnswers(ctx, "alice", []domain.AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []int64{1}},
		{QuestionID: 1, SelectedOptionIDs: []int64{77}},
		{QuestionID: 1, Text: &text},
	})
	if !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected option not found, got %v", err)
	}
	if _, err := store.FindUserByName(ctx, "alice"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no user after failed batch, got %v", err)
	}
	if len(store.answers) != 0 {
		t.Fatalf("expected no answers stored, got %d", len(store.answers))
	}
}

func TestSaveAnswersUpsertsUser(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	first, err := store.SaveAnswers(ctx, "bob", []domain.AnswerSubmission{{QuestionID: 1, SelectedOptionIDs: []int64{2}}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.SaveAnswers(ctx, "bob", []domain.AnswerSubmission{{QuestionID: 1, SelectedOptionIDs: []int64{1}}})
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if first.User.ID != second.User.ID {
		t.Fatalf("expected same user, got %d and %d", first.User.ID, second.User.ID)
	}
	if second.Answers[0].ID <= first.Answers[0].ID {
		t.Fatalf("expected increasing answer ids, got %d then %d", first.Answers[0].ID, second.Answers[0].ID)
	}
}

func TestStreamUserAnswersOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	late, _ := store.CreateQuiz(ctx, domain.Quiz{Name: "Late"})
	early, _ := store.CreateQuiz(ctx, domain.Quiz{Name: "Early"})
	qLate, _ := store.CreateQuestion(ctx, domain.Question{QuizID: late.ID, Text: "L", Type: domain.AnswerText})
	qEarly, _ := store.CreateQuestion(ctx, domain.Question{
		QuizID:  early.ID,
		Text:    "E",
		Type:    domain.AnswerSomeSelected,
		Options: []domain.QuestionOption{{Name: "a"}, {Name: "b"}},
	})

	text := "x"
	res, err := store.SaveAnswers(ctx, "carol", []domain.AnswerSubmission{
		{QuestionID: qEarly.ID, SelectedOptionIDs: []int64{qEarly.Options[1].ID, qEarly.Options[0].ID}},
		{QuestionID: qLate.ID, Text: &text},
		{QuestionID: qLate.ID, Text: &text},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	var got []domain.AnswerRecord
	if err := store.StreamUserAnswers(ctx, res.User.ID, func(r domain.AnswerRecord) error {
		got = append(got, r)
		return nil
	}); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	// Ordered by quiz id: "Late" was created first.
	if got[0].QuizID != late.ID || got[1].QuizID != late.ID || got[2].QuizID != early.ID {
		t.Fatalf("unexpected quiz order: %+v", got)
	}
	if got[0].AnswerID > got[1].AnswerID {
		t.Fatalf("expected answer ids ascending within a quiz")
	}
	if sel := got[2].SelectedOptions; len(sel) != 2 || sel[0] != "b" || sel[1] != "a" {
		t.Fatalf("expected selection order b,a got %v", sel)
	}

	stop := errors.New("stop")
	calls := 0
	err = store.StreamUserAnswers(ctx, res.User.ID, func(domain.AnswerRecord) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("expected stream to stop on first error, got %v after %d calls", err, calls)
	}
}

func TestDeleteOptionKeepsAnswer(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	res, err := store.SaveAnswers(ctx, "dan", []domain.AnswerSubmission{{QuestionID: 1, SelectedOptionIDs: []int64{1}}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.DeleteOption(ctx, 1); err != nil {
		t.Fatalf("delete option: %v", err)
	}
	answer, ok := store.answers[res.Answers[0].ID]
	if !ok {
		t.Fatalf("expected answer to survive option delete")
	}
	if len(answer.SelectedOptionIDs) != 0 {
		t.Fatalf("expected selection to be cleared, got %v", answer.SelectedOptionIDs)
	}
}

func TestNotFoundErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.GetQuiz(ctx, 1); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if _, err := store.UpdateQuiz(ctx, domain.Quiz{ID: 1}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found on update, got %v", err)
	}
	if err := store.DeleteQuestion(ctx, 1); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
	if _, err := store.CreateQuestion(ctx, domain.Question{QuizID: 5, Text: "x", Type: domain.AnswerText}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found on question create, got %v", err)
	}
	if _, err := store.UpdateOption(ctx, domain.QuestionOption{ID: 3}); !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected option not found, got %v", err)
	}
}
