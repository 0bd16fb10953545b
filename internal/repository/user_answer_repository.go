package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/medprep-backend/internal/model"
)

// UserAnswerRepository handles the append-only attempt log. Rows are
// inserted by answer submission and never updated.
type UserAnswerRepository struct {
	pool *pgxpool.Pool
}

// NewUserAnswerRepository creates a new UserAnswerRepository.
func NewUserAnswerRepository(pool *pgxpool.Pool) *UserAnswerRepository {
	return &UserAnswerRepository{pool: pool}
}

// Insert appends one attempt row.
func (r *UserAnswerRepository) Insert(ctx context.Context, ua *model.UserAnswer) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO user_answers (user_id, question_id, selected_answer_id, is_correct, time_spent_ms)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		ua.UserID, ua.QuestionID, ua.SelectedAnswerID, ua.IsCorrect, ua.TimeSpentMs,
	).Scan(&ua.ID, &ua.CreatedAt)
}

// ListByUserAndQuestion retrieves a user's attempts at one question, newest
// first, each enriched with the chosen answer's display text. The selected
// answer columns are null when the choice has since been removed.
func (r *UserAnswerRepository) ListByUserAndQuestion(ctx context.Context, userID, questionID uuid.UUID) ([]model.AttemptView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ua.id, ua.is_correct, ua.time_spent_ms, ua.created_at,
		        ac.id, ac.choice_text, ac.choice_letter
		 FROM user_answers ua
		 LEFT JOIN answer_choices ac ON ac.id = ua.selected_answer_id
		 WHERE ua.user_id = $1 AND ua.question_id = $2
		 ORDER BY ua.created_at DESC`, userID, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.AttemptView
	for rows.Next() {
		var a model.AttemptView
		var choiceID *uuid.UUID
		var choiceText, choiceLetter *string
		if err := rows.Scan(&a.ID, &a.IsCorrect, &a.TimeSpentMs, &a.CreatedAt,
			&choiceID, &choiceText, &choiceLetter); err != nil {
			return nil, err
		}
		if choiceID != nil {
			a.SelectedAnswer = &model.SelectedAnswerSummary{
				ID:           *choiceID,
				ChoiceText:   *choiceText,
				ChoiceLetter: *choiceLetter,
			}
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// QuestionAggregate computes attempt totals for one question across all
// users. avgTimeMs is nil when no attempt recorded a time.
func (r *UserAnswerRepository) QuestionAggregate(ctx context.Context, questionID uuid.UUID) (total, correct int, avgTimeMs *float64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_correct),
		        AVG(time_spent_ms)
		 FROM user_answers WHERE question_id = $1`, questionID,
	).Scan(&total, &correct, &avgTimeMs)
	return
}

// UserAggregate computes attempt totals for one user across all questions,
// including the number of distinct questions attempted.
func (r *UserAnswerRepository) UserAggregate(ctx context.Context, userID uuid.UUID) (total, correct, uniqueQuestions int, avgTimeMs *float64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_correct),
		        COUNT(DISTINCT question_id),
		        AVG(time_spent_ms)
		 FROM user_answers WHERE user_id = $1`, userID,
	).Scan(&total, &correct, &uniqueQuestions, &avgTimeMs)
	return
}

// LastAttempt retrieves the user's most recent attempt at a question.
// Returns (nil, nil) when no attempt exists.
func (r *UserAnswerRepository) LastAttempt(ctx context.Context, userID, questionID uuid.UUID) (*model.UserAnswer, error) {
	ua := &model.UserAnswer{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, question_id, selected_answer_id, is_correct, time_spent_ms, created_at
		 FROM user_answers
		 WHERE user_id = $1 AND question_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`, userID, questionID,
	).Scan(&ua.ID, &ua.UserID, &ua.QuestionID, &ua.SelectedAnswerID, &ua.IsCorrect, &ua.TimeSpentMs, &ua.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ua, nil
}
