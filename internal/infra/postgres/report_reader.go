package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"survey-quiz-service/internal/domain"
)

const userAnswersQuery = `
SELECT a.id,
       q.quiz_id,
       z.name,
       q.id,
       q.text,
       a.text,
       COALESCE(array_agg(o.name ORDER BY ao.position) FILTER (WHERE o.id IS NOT NULL), '{}')
FROM answers a
JOIN questions q ON q.id = a.question_id
JOIN quizzes z ON z.id = q.quiz_id
LEFT JOIN answer_options ao ON ao.answer_id = a.id
LEFT JOIN question_options o ON o.id = ao.option_id
WHERE a.user_id = $1
GROUP BY a.id, q.quiz_id, z.name, q.id, q.text, a.text
ORDER BY q.quiz_id ASC, a.id ASC`

// ReportReader streams a user's answers for report building straight from
// Postgres rows.
type ReportReader struct {
	pool *pgxpool.Pool
}

func NewReportReader(pool *pgxpool.Pool) *ReportReader {
	return &ReportReader{pool: pool}
}

func (r *ReportReader) StreamUserAnswers(ctx context.Context, userID int64, fn func(domain.AnswerRecord) error) error {
	rows, err := r.pool.Query(ctx, userAnswersQuery, userID)
	if err != nil {
		return fmt.Errorf("query user answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var record domain.AnswerRecord
		if err := rows.Scan(
			&record.AnswerID,
			&record.QuizID,
			&record.QuizName,
			&record.QuestionID,
			&record.QuestionText,
			&record.Text,
			&record.SelectedOptions,
		); err != nil {
			return fmt.Errorf("scan user answer: %w", err)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate user answers: %w", err)
	}
	return nil
}
