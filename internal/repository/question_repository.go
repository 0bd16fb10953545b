package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medprep/medprep-backend/internal/model"
)

const questionColumns = `q.id, q.question_text, q.image_blob_id, q.audio_blob_id, q.video_blob_id,
	q.difficulty, q.explanation, q.is_active, q.display_order, q.created_at, q.updated_at`

const answerColumns = `id, question_id, choice_text, choice_letter, is_correct, image_blob_id, display_order, created_at`

// QuestionRepository handles question and answer-choice data access.
// Multi-row writes (create with answers, answer-set replacement) run inside
// a single transaction so a crash cannot leave a question without choices.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.ImageBlobID, &q.AudioBlobID, &q.VideoBlobID,
			&q.Difficulty, &q.Explanation, &q.IsActive, &q.DisplayOrder, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// attachCategoryIDs loads the category id set for each question in place.
func (r *QuestionRepository) attachCategoryIDs(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(questions))
	index := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
		index[questions[i].ID] = &questions[i]
	}

	rows, err := r.pool.Query(ctx,
		`SELECT question_id, category_id FROM question_categories WHERE question_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var questionID, categoryID uuid.UUID
		if err := rows.Scan(&questionID, &categoryID); err != nil {
			return err
		}
		if q, ok := index[questionID]; ok {
			q.CategoryIDs = append(q.CategoryIDs, categoryID)
		}
	}
	return rows.Err()
}

// ListActive retrieves all active questions.
func (r *QuestionRepository) ListActive(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions q WHERE q.is_active ORDER BY q.display_order NULLS LAST, q.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}
	return questions, r.attachCategoryIDs(ctx, questions)
}

// ListAll retrieves all questions including inactive drafts.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions q ORDER BY q.display_order NULLS LAST, q.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}
	return questions, r.attachCategoryIDs(ctx, questions)
}

// ListActiveByCategory retrieves active questions belonging to a category,
// resolved through the join table index rather than scanning all questions.
func (r *QuestionRepository) ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions q
		 JOIN question_categories qc ON qc.question_id = q.id
		 WHERE q.is_active AND qc.category_id = $1
		 ORDER BY q.display_order NULLS LAST, q.created_at`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}
	return questions, r.attachCategoryIDs(ctx, questions)
}

// GetByID retrieves a question by ID. Returns (nil, nil) if absent.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var q model.Question
	err := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions q WHERE q.id = $1`, id,
	).Scan(&q.ID, &q.QuestionText, &q.ImageBlobID, &q.AudioBlobID, &q.VideoBlobID,
		&q.Difficulty, &q.Explanation, &q.IsActive, &q.DisplayOrder, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	questions := []model.Question{q}
	if err := r.attachCategoryIDs(ctx, questions); err != nil {
		return nil, err
	}
	return &questions[0], nil
}

// GetWithAnswers retrieves a question with its answer choices sorted by
// display order ascending. Returns (nil, nil) if the question is absent.
func (r *QuestionRepository) GetWithAnswers(ctx context.Context, id uuid.UUID) (*model.QuestionWithAnswers, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil || q == nil {
		return nil, err
	}

	answers, err := r.ListAnswers(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.QuestionWithAnswers{Question: *q, Answers: answers}, nil
}

// ListAnswers retrieves a question's answer choices sorted by display order.
func (r *QuestionRepository) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.AnswerChoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+answerColumns+` FROM answer_choices WHERE question_id = $1 ORDER BY display_order ASC`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.AnswerChoice
	for rows.Next() {
		var a model.AnswerChoice
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.ChoiceText, &a.ChoiceLetter, &a.IsCorrect,
			&a.ImageBlobID, &a.DisplayOrder, &a.CreatedAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// GetAnswerChoice retrieves a single answer choice by ID. Returns (nil, nil)
// if absent.
func (r *QuestionRepository) GetAnswerChoice(ctx context.Context, id uuid.UUID) (*model.AnswerChoice, error) {
	a := &model.AnswerChoice{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM answer_choices WHERE id = $1`, id,
	).Scan(&a.ID, &a.QuestionID, &a.ChoiceText, &a.ChoiceLetter, &a.IsCorrect,
		&a.ImageBlobID, &a.DisplayOrder, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateWithAnswers inserts a question, its category links, and its answer
// choices atomically. The question's ID and timestamps are filled in.
func (r *QuestionRepository) CreateWithAnswers(ctx context.Context, q *model.Question, answers []model.AnswerInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO questions (question_text, image_blob_id, audio_blob_id, video_blob_id, difficulty, explanation, is_active, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		q.QuestionText, q.ImageBlobID, q.AudioBlobID, q.VideoBlobID, q.Difficulty, q.Explanation, q.IsActive, q.DisplayOrder,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	if err := replaceCategoryLinks(ctx, tx, q.ID, q.CategoryIDs); err != nil {
		return err
	}

	for _, a := range answers {
		if err := insertAnswerChoice(ctx, tx, q.ID, a); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update patches a question. Only non-nil fields are touched; when
// categoryIDs is supplied, the category links are replaced in the same
// transaction.
func (r *QuestionRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuestionRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	b := newUpdateBuilder("questions", id)
	b.Set("question_text", req.QuestionText)
	b.Set("image_blob_id", req.ImageBlobID)
	b.Set("audio_blob_id", req.AudioBlobID)
	b.Set("video_blob_id", req.VideoBlobID)
	b.Set("difficulty", req.Difficulty)
	b.Set("explanation", req.Explanation)
	b.Set("is_active", req.IsActive)
	b.Set("display_order", req.DisplayOrder)

	if query, args, ok := b.Build(); ok {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("update question: %w", err)
		}
	}

	if req.CategoryIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM question_categories WHERE question_id = $1`, id); err != nil {
			return fmt.Errorf("clear category links: %w", err)
		}
		if err := replaceCategoryLinks(ctx, tx, id, *req.CategoryIDs); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// AnswerReconciliation is a diff-by-id plan for replacing a question's
// answer set while preserving the identity of unchanged rows.
type AnswerReconciliation struct {
	DeleteIDs []uuid.UUID
	Updates   []model.AnswerInput // ID set; patches existing rows in place
	Inserts   []model.AnswerInput // ID unset; inserted as new rows
}

// ReplaceAnswers applies a reconciliation plan atomically.
func (r *QuestionRepository) ReplaceAnswers(ctx context.Context, questionID uuid.UUID, plan AnswerReconciliation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, id := range plan.DeleteIDs {
		if _, err := tx.Exec(ctx, `DELETE FROM answer_choices WHERE id = $1 AND question_id = $2`, id, questionID); err != nil {
			return fmt.Errorf("delete answer: %w", err)
		}
	}

	for _, a := range plan.Updates {
		_, err := tx.Exec(ctx,
			`UPDATE answer_choices
			 SET choice_text = $1, choice_letter = $2, is_correct = $3, image_blob_id = $4, display_order = $5
			 WHERE id = $6 AND question_id = $7`,
			a.ChoiceText, a.ChoiceLetter, a.IsCorrect, a.ImageBlobID, a.DisplayOrder, *a.ID, questionID)
		if err != nil {
			return fmt.Errorf("update answer: %w", err)
		}
	}

	for _, a := range plan.Inserts {
		if err := insertAnswerChoice(ctx, tx, questionID, a); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a question. Answer choices, category links, and attempt
// rows are removed by the store's cascading foreign keys.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}

func insertAnswerChoice(ctx context.Context, tx pgx.Tx, questionID uuid.UUID, a model.AnswerInput) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO answer_choices (question_id, choice_text, choice_letter, is_correct, image_blob_id, display_order)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		questionID, a.ChoiceText, a.ChoiceLetter, a.IsCorrect, a.ImageBlobID, a.DisplayOrder)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func replaceCategoryLinks(ctx context.Context, tx pgx.Tx, questionID uuid.UUID, categoryIDs []uuid.UUID) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO question_categories (question_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			questionID, categoryID)
		if err != nil {
			return fmt.Errorf("link category: %w", err)
		}
	}
	return nil
}
