package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"survey-quiz-service/internal/domain"
)

const pgForeignKeyViolation = "23503"

// Store persists the catalog and submitted answers in Postgres through bun.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	m := quizFromDomain(quiz)
	m.ID = 0
	if _, err := s.db.NewInsert().Model(m).Returning("id").Exec(ctx); err != nil {
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	created := m.toDomain()
	created.Questions = []domain.Question{}
	return created, nil
}

func (s *Store) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	m := new(quizModel)
	err := selectQuizzes(s.db.NewSelect().Model(m)).
		Where("qz.id = ?", quizID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("select quiz: %w", err)
	}
	return m.toDomain(), nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var models []*quizModel
	err := selectQuizzes(s.db.NewSelect().Model(&models)).
		OrderExpr("qz.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select quizzes: %w", err)
	}
	quizzes := make([]domain.Quiz, 0, len(models))
	for _, m := range models {
		quizzes = append(quizzes, m.toDomain())
	}
	return quizzes, nil
}

func (s *Store) UpdateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	m := quizFromDomain(quiz)
	res, err := s.db.NewUpdate().
		Model(m).
		Column("name", "finish_date", "description").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	if !affected(res) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.GetQuiz(ctx, quiz.ID)
}

func (s *Store) DeleteQuiz(ctx context.Context, quizID int64) error {
	res, err := s.db.NewDelete().
		Model((*quizModel)(nil)).
		Where("id = ?", quizID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if !affected(res) {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *Store) CreateQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	var created domain.Question
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := &questionModel{
			QuizID: question.QuizID,
			Text:   question.Text,
			Type:   string(question.Type),
		}
		if _, err := tx.NewInsert().Model(m).Returning("id").Exec(ctx); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrQuizNotFound
			}
			return fmt.Errorf("insert question: %w", err)
		}
		if err := insertOptions(ctx, tx, m.ID, question.Options); err != nil {
			return err
		}
		var err error
		created, err = getQuestion(ctx, tx, m.ID)
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}
	return created, nil
}

func (s *Store) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	return getQuestion(ctx, s.db, questionID)
}

func (s *Store) UpdateQuestion(ctx context.Context, question domain.Question, replaceOptions bool) (domain.Question, error) {
	var updated domain.Question
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := &questionModel{ID: question.ID, Text: question.Text, Type: string(question.Type)}
		res, err := tx.NewUpdate().
			Model(m).
			Column("text", "type").
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update question: %w", err)
		}
		if !affected(res) {
			return domain.ErrQuestionNotFound
		}

		if replaceOptions {
			if _, err := tx.NewDelete().
				Model((*optionModel)(nil)).
				Where("question_id = ?", question.ID).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete question options: %w", err)
			}
			if err := insertOptions(ctx, tx, question.ID, question.Options); err != nil {
				return err
			}
		}

		updated, err = getQuestion(ctx, tx, question.ID)
		return err
	})
	if err != nil {
		return domain.Question{}, err
	}
	return updated, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, questionID int64) error {
	res, err := s.db.NewDelete().
		Model((*questionModel)(nil)).
		Where("id = ?", questionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if !affected(res) {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) GetOption(ctx context.Context, optionID int64) (domain.QuestionOption, error) {
	m := new(optionModel)
	err := s.db.NewSelect().Model(m).Where("o.id = ?", optionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuestionOption{}, domain.ErrOptionNotFound
	}
	if err != nil {
		return domain.QuestionOption{}, fmt.Errorf("select option: %w", err)
	}
	return m.toDomain(), nil
}

func (s *Store) UpdateOption(ctx context.Context, option domain.QuestionOption) (domain.QuestionOption, error) {
	m := &optionModel{ID: option.ID, Name: option.Name}
	res, err := s.db.NewUpdate().
		Model(m).
		Column("name").
		WherePK().
		Returning("question_id").
		Exec(ctx)
	if err != nil {
		return domain.QuestionOption{}, fmt.Errorf("update option: %w", err)
	}
	if !affected(res) {
		return domain.QuestionOption{}, domain.ErrOptionNotFound
	}
	return m.toDomain(), nil
}

func (s *Store) DeleteOption(ctx context.Context, optionID int64) error {
	res, err := s.db.NewDelete().
		Model((*optionModel)(nil)).
		Where("id = ?", optionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete option: %w", err)
	}
	if !affected(res) {
		return domain.ErrOptionNotFound
	}
	return nil
}

// SaveAnswers upserts the user and stores the answers with their selected
// options in a single transaction.
func (s *Store) SaveAnswers(ctx context.Context, userName string, answers []domain.AnswerSubmission) (domain.SubmissionResult, error) {
	var result domain.SubmissionResult
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user := &userModel{Name: userName}
		if _, err := tx.NewInsert().
			Model(user).
			On("CONFLICT (name) DO UPDATE").
			Set("name = EXCLUDED.name").
			Returning("id").
			Exec(ctx); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		created := make([]domain.Answer, 0, len(answers))
		links := make([]*answerOptionModel, 0)
		for _, answer := range answers {
			m := &answerModel{
				UserID:     user.ID,
				QuestionID: answer.QuestionID,
				Text:       answer.Text,
			}
			if _, err := tx.NewInsert().Model(m).Returning("id").Exec(ctx); err != nil {
				return mapAnswerError("insert answer", err)
			}
			for pos, optionID := range answer.SelectedOptionIDs {
				links = append(links, &answerOptionModel{AnswerID: m.ID, OptionID: optionID, Position: pos})
			}
			created = append(created, domain.Answer{
				ID:                m.ID,
				UserID:            user.ID,
				QuestionID:        m.QuestionID,
				Text:              m.Text,
				SelectedOptionIDs: append([]int64{}, answer.SelectedOptionIDs...),
			})
		}

		if len(links) > 0 {
			if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
				return mapAnswerError("insert answer options", err)
			}
		}

		result = domain.SubmissionResult{
			User:    domain.User{ID: user.ID, Name: user.Name},
			Answers: created,
		}
		return nil
	})
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	return result, nil
}

func (s *Store) FindUserByName(ctx context.Context, name string) (domain.User, error) {
	m := new(userModel)
	err := s.db.NewSelect().Model(m).Where("u.name = ?", name).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return domain.User{ID: m.ID, Name: m.Name}, nil
}

func selectQuizzes(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Questions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.id ASC")
		}).
		Relation("Questions.Options", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.id ASC")
		})
}

func getQuestion(ctx context.Context, db bun.IDB, questionID int64) (domain.Question, error) {
	m := new(questionModel)
	err := db.NewSelect().
		Model(m).
		Relation("Options", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.id ASC")
		}).
		Where("q.id = ?", questionID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("select question: %w", err)
	}
	return m.toDomain(), nil
}

func insertOptions(ctx context.Context, tx bun.Tx, questionID int64, options []domain.QuestionOption) error {
	if len(options) == 0 {
		return nil
	}
	models := make([]*optionModel, 0, len(options))
	for _, opt := range options {
		models = append(models, &optionModel{QuestionID: questionID, Name: opt.Name})
	}
	if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
		return fmt.Errorf("insert question options: %w", err)
	}
	return nil
}

func affected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

func isForeignKeyViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == pgForeignKeyViolation
}

// mapAnswerError turns foreign key violations raised by concurrent catalog
// deletes into the matching not-found errors.
func mapAnswerError(op string, err error) error {
	var pgErr pgdriver.Error
	if isForeignKeyViolation(err) && errors.As(err, &pgErr) {
		switch constraint := pgErr.Field('n'); {
		case strings.Contains(constraint, "option_id"):
			return domain.ErrOptionNotFound
		case strings.Contains(constraint, "question_id"):
			return domain.ErrQuestionNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
