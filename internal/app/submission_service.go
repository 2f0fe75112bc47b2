package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"survey-quiz-service/internal/domain"
)

// QuestionRepository resolves questions together with their options.
type QuestionRepository interface {
	GetQuestion(ctx context.Context, questionID int64) (domain.Question, error)
}

// AnswerRepository persists submissions and resolves users.
type AnswerRepository interface {
	// SaveAnswers upserts the user by name and stores all answers in one
	// transaction. Nothing is stored when an error is returned.
	SaveAnswers(ctx context.Context, userName string, answers []domain.AnswerSubmission) (domain.SubmissionResult, error)
	FindUserByName(ctx context.Context, name string) (domain.User, error)
}

// SubmissionRecorder observes submission outcomes (metrics).
type SubmissionRecorder interface {
	SubmissionAccepted(answers int)
	SubmissionRejected(code string)
}

// SubmissionService validates and persists answer batches.
type SubmissionService struct {
	questions QuestionRepository
	answers   AnswerRepository
	notifier  ReportNotifier
	recorder  SubmissionRecorder
	log       logrus.FieldLogger
}

func NewSubmissionService(questions QuestionRepository, answers AnswerRepository, notifier ReportNotifier, recorder SubmissionRecorder, log logrus.FieldLogger) *SubmissionService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SubmissionService{
		questions: questions,
		answers:   answers,
		notifier:  notifier,
		recorder:  recorder,
		log:       log,
	}
}

// Submit validates every answer of the batch and persists them atomically.
// The first invalid answer rejects the whole batch.
func (s *SubmissionService) Submit(ctx context.Context, submission domain.Submission) (domain.SubmissionResult, error) {
	userName := strings.TrimSpace(submission.User)

	validated, err := s.validateBatch(ctx, submission.Answers)
	if err != nil {
		s.reject(userName, err)
		return domain.SubmissionResult{}, err
	}

	result, err := s.answers.SaveAnswers(ctx, userName, validated)
	if err != nil {
		s.reject(userName, err)
		return domain.SubmissionResult{}, fmt.Errorf("save answers: %w", err)
	}

	s.recorder.SubmissionAccepted(len(result.Answers))
	s.log.WithFields(logrus.Fields{
		"user":    result.User.Name,
		"user_id": result.User.ID,
		"answers": len(result.Answers),
	}).Info("submission stored")

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, result.User.Name); err != nil {
			s.log.WithError(err).WithField("user", result.User.Name).Warn("report notification failed")
		}
	}
	return result, nil
}

func (s *SubmissionService) validateBatch(ctx context.Context, answers []domain.AnswerSubmission) ([]domain.AnswerSubmission, error) {
	resolved := make(map[int64]domain.Question, len(answers))
	validated := make([]domain.AnswerSubmission, 0, len(answers))

	for i, answer := range answers {
		question, ok := resolved[answer.QuestionID]
		if !ok {
			var err error
			question, err = s.questions.GetQuestion(ctx, answer.QuestionID)
			if err != nil {
				return nil, fmt.Errorf("answer #%d: %w", i+1, err)
			}
			resolved[answer.QuestionID] = question
		}

		normalized, err := ValidateAnswer(question, answer)
		if err != nil {
			return nil, fmt.Errorf("answer #%d: %w", i+1, err)
		}
		validated = append(validated, normalized)
	}
	return validated, nil
}

func (s *SubmissionService) reject(userName string, err error) {
	code := "error_internal"
	var derr *domain.Error
	if errors.As(err, &derr) {
		code = string(derr.Kind)
	}
	s.recorder.SubmissionRejected(code)
	s.log.WithFields(logrus.Fields{
		"user": userName,
		"code": code,
	}).WithError(err).Info("submission rejected")
}

type nopRecorder struct{}

func (nopRecorder) SubmissionAccepted(int) {}
func (nopRecorder) SubmissionRejected(string) {}
