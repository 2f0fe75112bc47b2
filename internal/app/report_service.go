package app

import (
	"context"
	"fmt"
	"strings"

	"survey-quiz-service/internal/domain"
)

// AnswerStreamer delivers a user's answers ordered by quiz id, then answer id.
// Iteration stops at the first error returned by fn.
type AnswerStreamer interface {
	StreamUserAnswers(ctx context.Context, userID int64, fn func(domain.AnswerRecord) error) error
}

// ReportNotifier fans out "report changed" signals per user name.
// The caller must invoke the returned cancel function to avoid leaks.
type ReportNotifier interface {
	Publish(ctx context.Context, userName string) error
	Subscribe(ctx context.Context, userName string) (<-chan struct{}, func(), error)
}

// ReportService builds per-user reports.
type ReportService struct {
	users    AnswerRepository
	streamer AnswerStreamer
	notifier ReportNotifier
}

func NewReportService(users AnswerRepository, streamer AnswerStreamer, notifier ReportNotifier) *ReportService {
	return &ReportService{users: users, streamer: streamer, notifier: notifier}
}

// UserReport returns the answers of the named user grouped by quiz. A user
// without answers gets an empty report.
func (s *ReportService) UserReport(ctx context.Context, userName string) (domain.UserReport, error) {
	user, err := s.users.FindUserByName(ctx, strings.TrimSpace(userName))
	if err != nil {
		return domain.UserReport{}, err
	}

	agg := NewAggregator()
	err = s.streamer.StreamUserAnswers(ctx, user.ID, func(record domain.AnswerRecord) error {
		agg.Add(record)
		return nil
	})
	if err != nil {
		return domain.UserReport{}, fmt.Errorf("stream answers: %w", err)
	}
	return FormatReport(user.Name, agg.Groups()), nil
}

// Watch returns a channel signalled whenever a submission for the user is
// stored. The caller must invoke the returned cancel function.
func (s *ReportService) Watch(ctx context.Context, userName string) (<-chan struct{}, func(), error) {
	if s.notifier == nil {
		return nil, nil, fmt.Errorf("report notifications are not configured")
	}
	return s.notifier.Subscribe(ctx, strings.TrimSpace(userName))
}
