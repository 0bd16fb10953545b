package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Question errors.
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrOneCorrectAnswer = errors.New("exactly one answer must be marked as correct")
	ErrUnknownCategory  = errors.New("referenced category does not exist")
)

// QuestionService manages questions together with their owned answer
// choices. Every write path enforces the exactly-one-correct invariant and
// validates category references before touching the store.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	categoryRepo *repository.CategoryRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, categoryRepo *repository.CategoryRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ListActive retrieves all published questions.
func (s *QuestionService) ListActive(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.ListActive(ctx)
}

// ListAll retrieves every question including drafts, for the admin surface.
func (s *QuestionService) ListAll(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.ListAll(ctx)
}

// ListByCategory retrieves active questions belonging to the category.
func (s *QuestionService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Question, error) {
	return s.questionRepo.ListActiveByCategory(ctx, categoryID)
}

// GetWithAnswers retrieves a question with its answer choices sorted by
// display order. An absent question yields (nil, nil), not an error.
func (s *QuestionService) GetWithAnswers(ctx context.Context, id uuid.UUID) (*model.QuestionWithAnswers, error) {
	return s.questionRepo.GetWithAnswers(ctx, id)
}

// Create validates and inserts a question with its full answer set. The
// insert is atomic: either the question, its category links, and all its
// choices land, or nothing does.
func (s *QuestionService) Create(ctx context.Context, q *model.Question, answers []model.AnswerInput) error {
	if countCorrect(answers) != 1 {
		return ErrOneCorrectAnswer
	}
	if err := s.checkCategoriesExist(ctx, q.CategoryIDs); err != nil {
		return err
	}

	if err := s.questionRepo.CreateWithAnswers(ctx, q, answers); err != nil {
		return err
	}

	s.log.Info().Str("question_id", q.ID.String()).Int("answers", len(answers)).Msg("Question created")
	return nil
}

// Update patches a question without touching its answer choices. When
// category ids are supplied, each must resolve to an existing category.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	existing, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrQuestionNotFound
	}

	if req.CategoryIDs != nil {
		if err := s.checkCategoriesExist(ctx, *req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.questionRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(ctx, id)
}

// ReplaceAnswers swaps a question's answer set using diff-by-id
// reconciliation: existing choices omitted from the payload are deleted,
// choices matched by id are patched in place, and entries without an id are
// inserted. Identity of unchanged rows is preserved.
func (s *QuestionService) ReplaceAnswers(ctx context.Context, questionID uuid.UUID, incoming []model.AnswerInput) ([]model.AnswerChoice, error) {
	if countCorrect(incoming) != 1 {
		return nil, ErrOneCorrectAnswer
	}

	existing, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrQuestionNotFound
	}

	current, err := s.questionRepo.ListAnswers(ctx, questionID)
	if err != nil {
		return nil, err
	}

	plan := reconcileAnswers(current, incoming)
	if err := s.questionRepo.ReplaceAnswers(ctx, questionID, plan); err != nil {
		return nil, err
	}

	return s.questionRepo.ListAnswers(ctx, questionID)
}

// Delete removes a question and, through the store's cascading constraints,
// all of its answer choices.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrQuestionNotFound
	}
	return s.questionRepo.Delete(ctx, id)
}

// checkCategoriesExist resolves every category id, failing fast on the
// first miss.
func (s *QuestionService) checkCategoriesExist(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		c, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrUnknownCategory
		}
	}
	return nil
}

// countCorrect returns the number of inputs flagged correct.
func countCorrect(answers []model.AnswerInput) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// reconcileAnswers computes the diff-by-id plan for replacing an answer set:
// existing choices absent from incoming are deleted, incoming entries whose
// id matches an existing choice become in-place updates, and the rest become
// inserts. Incoming ids that match nothing are treated as inserts so a stale
// id cannot resurrect a deleted row.
func reconcileAnswers(existing []model.AnswerChoice, incoming []model.AnswerInput) repository.AnswerReconciliation {
	existingIDs := make(map[uuid.UUID]bool, len(existing))
	for _, a := range existing {
		existingIDs[a.ID] = true
	}

	providedIDs := make(map[uuid.UUID]bool, len(incoming))
	for _, a := range incoming {
		if a.ID != nil {
			providedIDs[*a.ID] = true
		}
	}

	var plan repository.AnswerReconciliation
	for _, a := range existing {
		if !providedIDs[a.ID] {
			plan.DeleteIDs = append(plan.DeleteIDs, a.ID)
		}
	}
	for _, a := range incoming {
		if a.ID != nil && existingIDs[*a.ID] {
			plan.Updates = append(plan.Updates, a)
		} else {
			plan.Inserts = append(plan.Inserts, a)
		}
	}
	return plan
}
