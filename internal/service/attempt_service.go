package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Attempt errors.
var (
	ErrNotAuthenticated = errors.New("caller is not authenticated")
	ErrUserNotFound     = errors.New("user not found")
	ErrAnswerNotFound   = errors.New("answer choice not found")
	ErrAnswerMismatch   = errors.New("answer choice does not belong to this question")
)

// AttemptService records answer submissions and aggregates statistics over
// the append-only attempt log.
type AttemptService struct {
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.UserAnswerRepository
	log          zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.UserAnswerRepository,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		log:          log.With().Str("component", "attempt_service").Logger(),
	}
}

// Submit records one attempt at a question. Correctness comes from the
// stored choice, never from the client. Every successful call appends
// exactly one row; repeat submissions are the intended retry behavior and
// simply accumulate attempts.
func (s *AttemptService) Submit(ctx context.Context, externalID string, questionID uuid.UUID, req *model.SubmitAnswerRequest) (*model.SubmitResult, error) {
	if externalID == "" {
		return nil, ErrNotAuthenticated
	}

	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	choice, err := s.questionRepo.GetAnswerChoice(ctx, req.SelectedAnswerID)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, ErrAnswerNotFound
	}
	// Guard against cross-question answer injection.
	if choice.QuestionID != questionID {
		return nil, ErrAnswerMismatch
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	attempt := &model.UserAnswer{
		UserID:           user.ID,
		QuestionID:       questionID,
		SelectedAnswerID: choice.ID,
		IsCorrect:        choice.IsCorrect,
		TimeSpentMs:      req.TimeSpentMs,
	}
	if err := s.attemptRepo.Insert(ctx, attempt); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("question_id", questionID.String()).
		Bool("correct", choice.IsCorrect).
		Msg("Attempt recorded")

	return &model.SubmitResult{
		UserAnswerID: attempt.ID,
		IsCorrect:    choice.IsCorrect,
		Explanation:  question.Explanation,
		SelectedAnswer: model.SelectedAnswerSummary{
			ID:           choice.ID,
			ChoiceText:   choice.ChoiceText,
			ChoiceLetter: choice.ChoiceLetter,
		},
	}, nil
}

// History retrieves the caller's attempts at a question, newest first.
// An unauthenticated or unknown caller gets an empty history, not an error.
func (s *AttemptService) History(ctx context.Context, externalID string, questionID uuid.UUID) ([]model.AttemptView, error) {
	user, err := s.resolveUser(ctx, externalID)
	if err != nil || user == nil {
		return []model.AttemptView{}, err
	}

	attempts, err := s.attemptRepo.ListByUserAndQuestion(ctx, user.ID, questionID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.AttemptView{}
	}
	return attempts, nil
}

// QuestionStats aggregates all attempts at a question across all users.
func (s *AttemptService) QuestionStats(ctx context.Context, questionID uuid.UUID) (*model.QuestionStats, error) {
	total, correct, avgTimeMs, err := s.attemptRepo.QuestionAggregate(ctx, questionID)
	if err != nil {
		return nil, err
	}
	stats := buildStats(total, correct, avgTimeMs)
	return &stats, nil
}

// UserPerformance aggregates the caller's attempts across all questions.
func (s *AttemptService) UserPerformance(ctx context.Context, externalID string) (*model.UserPerformance, error) {
	if externalID == "" {
		return nil, ErrNotAuthenticated
	}
	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	total, correct, uniqueQuestions, avgTimeMs, err := s.attemptRepo.UserAggregate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.UserPerformance{
		QuestionStats:           buildStats(total, correct, avgTimeMs),
		UniqueQuestionsAnswered: uniqueQuestions,
	}, nil
}

// HasAnswered reports whether the caller attempted the question before,
// with the most recent attempt's outcome. Unauthenticated or unknown
// callers get {false, nil}.
func (s *AttemptService) HasAnswered(ctx context.Context, externalID string, questionID uuid.UUID) (*model.AnsweredStatus, error) {
	user, err := s.resolveUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &model.AnsweredStatus{HasAnswered: false}, nil
	}

	last, err := s.attemptRepo.LastAttempt(ctx, user.ID, questionID)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return &model.AnsweredStatus{HasAnswered: false}, nil
	}

	return &model.AnsweredStatus{
		HasAnswered: true,
		LastAttempt: &model.LastAttempt{IsCorrect: last.IsCorrect, CreatedAt: last.CreatedAt},
	}, nil
}

// resolveUser looks up the caller leniently: empty identity and unknown
// users both yield (nil, nil).
func (s *AttemptService) resolveUser(ctx context.Context, externalID string) (*model.User, error) {
	if externalID == "" {
		return nil, nil
	}
	return s.userRepo.GetByExternalID(ctx, externalID)
}

// buildStats shapes raw aggregate counts into the stats view. Success rate
// is 0 for zero attempts, never NaN.
func buildStats(total, correct int, avgTimeMs *float64) model.QuestionStats {
	stats := model.QuestionStats{
		TotalAttempts:   total,
		CorrectAttempts: correct,
		AverageTimeMs:   avgTimeMs,
	}
	if total > 0 {
		stats.SuccessRate = float64(correct) / float64(total) * 100
	}
	return stats
}
