package app

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"survey-quiz-service/internal/domain"
)

// CatalogRepository stores quizzes, questions and question options.
type CatalogRepository interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	// GetQuiz returns the quiz with its questions and their options.
	GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID int64) error

	// CreateQuestion stores the question and the options named in
	// question.Options in one transaction.
	CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	GetQuestion(ctx context.Context, questionID int64) (domain.Question, error)
	// UpdateQuestion stores text and type. With replaceOptions the existing
	// options are deleted and question.Options are created in their place.
	UpdateQuestion(ctx context.Context, question domain.Question, replaceOptions bool) (domain.Question, error)
	DeleteQuestion(ctx context.Context, questionID int64) error

	GetOption(ctx context.Context, optionID int64) (domain.QuestionOption, error)
	UpdateOption(ctx context.Context, option domain.QuestionOption) (domain.QuestionOption, error)
	DeleteOption(ctx context.Context, optionID int64) error
}

// QuestionInvalidator drops cached questions after catalog writes.
type QuestionInvalidator interface {
	Invalidate(ctx context.Context, questionIDs ...int64)
}

// CatalogService contains the administrative quiz and question use cases.
type CatalogService struct {
	repo  CatalogRepository
	cache QuestionInvalidator
	log   logrus.FieldLogger
}

func NewCatalogService(repo CatalogRepository, cache QuestionInvalidator, log logrus.FieldLogger) *CatalogService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	if quiz.FinishDate.Before(quiz.StartDate) {
		return domain.Quiz{}, domain.ErrInvalidDateRange
	}
	quiz.ID = 0
	quiz.Questions = nil
	quiz.Name = strings.TrimSpace(quiz.Name)
	return s.repo.CreateQuiz(ctx, quiz)
}

func (s *CatalogService) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	return s.repo.GetQuiz(ctx, quizID)
}

func (s *CatalogService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.repo.ListQuizzes(ctx)
}

// UpdateQuiz applies a partial update. The start date is fixed at creation;
// sending the stored value again is accepted as a no-op.
func (s *CatalogService) UpdateQuiz(ctx context.Context, quizID int64, patch domain.QuizPatch) (domain.Quiz, error) {
	quiz, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if patch.StartDate != nil && !patch.StartDate.Equal(quiz.StartDate) {
		return domain.Quiz{}, domain.ErrImmutableStartDate
	}
	if patch.Name != nil {
		quiz.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.FinishDate != nil {
		quiz.FinishDate = *patch.FinishDate
	}
	if patch.Description != nil {
		quiz.Description = *patch.Description
	}
	if quiz.FinishDate.Before(quiz.StartDate) {
		return domain.Quiz{}, domain.ErrInvalidDateRange
	}
	return s.repo.UpdateQuiz(ctx, quiz)
}

func (s *CatalogService) DeleteQuiz(ctx context.Context, quizID int64) error {
	quiz, err := s.repo.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	ids := make([]int64, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		ids = append(ids, q.ID)
	}
	s.invalidate(ctx, ids...)
	s.log.WithField("quiz_id", quizID).Info("quiz deleted")
	return nil
}

// CreateQuestion adds a question to an existing quiz. Selectable questions
// must come with options; text questions must not.
func (s *CatalogService) CreateQuestion(ctx context.Context, input domain.NewQuestion) (domain.Question, error) {
	if _, err := s.repo.GetQuiz(ctx, input.QuizID); err != nil {
		return domain.Question{}, err
	}
	if err := CheckOptionsForType(input.Type, input.Options); err != nil {
		return domain.Question{}, err
	}

	return s.repo.CreateQuestion(ctx, domain.Question{
		QuizID:  input.QuizID,
		Text:    strings.TrimSpace(input.Text),
		Type:    input.Type,
		Options: namedOptions(input.Options),
	})
}

func (s *CatalogService) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	return s.repo.GetQuestion(ctx, questionID)
}

// UpdateQuestion applies a partial update. Supplied options replace the whole
// option set. Switching a question to free text drops its options.
func (s *CatalogService) UpdateQuestion(ctx context.Context, questionID int64, patch domain.QuestionPatch) (domain.Question, error) {
	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}

	if patch.Text != nil {
		question.Text = strings.TrimSpace(*patch.Text)
	}
	if patch.Type != nil {
		question.Type = *patch.Type
	}

	options := question.OptionNames()
	replace := false
	switch {
	case patch.Options != nil:
		options = patch.Options
		replace = true
	case !question.Type.Selectable():
		replace = len(question.Options) > 0
		options = nil
	}
	if err := CheckOptionsForType(question.Type, options); err != nil {
		return domain.Question{}, err
	}
	if replace {
		question.Options = namedOptions(options)
	}

	updated, err := s.repo.UpdateQuestion(ctx, question, replace)
	if err != nil {
		return domain.Question{}, err
	}
	s.invalidate(ctx, questionID)
	return updated, nil
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, questionID int64) error {
	if err := s.repo.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}
	s.invalidate(ctx, questionID)
	return nil
}

// RenameOption changes the display name of an option.
func (s *CatalogService) RenameOption(ctx context.Context, optionID int64, name string) (domain.QuestionOption, error) {
	if err := CheckOptionName(name); err != nil {
		return domain.QuestionOption{}, err
	}
	option, err := s.repo.GetOption(ctx, optionID)
	if err != nil {
		return domain.QuestionOption{}, err
	}
	option.Name = strings.TrimSpace(name)
	updated, err := s.repo.UpdateOption(ctx, option)
	if err != nil {
		return domain.QuestionOption{}, err
	}
	s.invalidate(ctx, option.QuestionID)
	return updated, nil
}

// DeleteOption removes an option. The last option of a selectable question
// cannot be deleted.
func (s *CatalogService) DeleteOption(ctx context.Context, optionID int64) error {
	option, err := s.repo.GetOption(ctx, optionID)
	if err != nil {
		return err
	}
	question, err := s.repo.GetQuestion(ctx, option.QuestionID)
	if err != nil {
		return err
	}
	if question.Type.Selectable() && len(question.Options) <= 1 {
		return domain.ErrOptionsRequired
	}
	if err := s.repo.DeleteOption(ctx, optionID); err != nil {
		return err
	}
	s.invalidate(ctx, option.QuestionID)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, questionIDs ...int64) {
	if s.cache == nil || len(questionIDs) == 0 {
		return
	}
	s.cache.Invalidate(ctx, questionIDs...)
}

func namedOptions(names []string) []domain.QuestionOption {
	if names == nil {
		return nil
	}
	options := make([]domain.QuestionOption, 0, len(names))
	for _, name := range names {
		options = append(options, domain.QuestionOption{Name: strings.TrimSpace(name)})
	}
	return options
}
