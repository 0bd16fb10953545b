package model

import (
	"time"

	"github.com/google/uuid"
)

// UserAnswer is an immutable record of one user's attempt at one question.
// Rows are append-only; correctness is computed at write time from the
// selected choice and never re-derived.
type UserAnswer struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedAnswerID uuid.UUID `json:"selected_answer_id"`
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentMs      *int      `json:"time_spent_ms,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SubmitAnswerRequest is the payload for submitting an attempt.
type SubmitAnswerRequest struct {
	SelectedAnswerID uuid.UUID `json:"selected_answer_id" binding:"required"`
	TimeSpentMs      *int      `json:"time_spent_ms" binding:"omitempty,min=0"`
}

// SelectedAnswerSummary is the display view of the chosen answer choice.
type SelectedAnswerSummary struct {
	ID           uuid.UUID `json:"id"`
	ChoiceText   string    `json:"choice_text"`
	ChoiceLetter string    `json:"choice_letter"`
}

// SubmitResult is returned to the caller after a successful submission.
type SubmitResult struct {
	UserAnswerID   uuid.UUID             `json:"user_answer_id"`
	IsCorrect      bool                  `json:"is_correct"`
	Explanation    string                `json:"explanation"`
	SelectedAnswer SelectedAnswerSummary `json:"selected_answer"`
}

// AttemptView is one history entry, enriched with the chosen answer's
// display text. SelectedAnswer is nil if the choice has since been removed.
type AttemptView struct {
	ID             uuid.UUID              `json:"id"`
	IsCorrect      bool                   `json:"is_correct"`
	TimeSpentMs    *int                   `json:"time_spent_ms,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	SelectedAnswer *SelectedAnswerSummary `json:"selected_answer"`
}

// QuestionStats aggregates all attempts at a single question.
// SuccessRate is a percentage, 0 when there are no attempts.
// AverageTimeMs is nil when no attempt recorded a time.
type QuestionStats struct {
	TotalAttempts   int      `json:"total_attempts"`
	CorrectAttempts int      `json:"correct_attempts"`
	SuccessRate     float64  `json:"success_rate"`
	AverageTimeMs   *float64 `json:"average_time_ms"`
}

// UserPerformance is the caller-scoped aggregate across all questions.
type UserPerformance struct {
	QuestionStats
	UniqueQuestionsAnswered int `json:"unique_questions_answered"`
}

// LastAttempt summarizes the most recent attempt at a question.
type LastAttempt struct {
	IsCorrect bool      `json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
}

// AnsweredStatus reports whether the caller has attempted a question before.
type AnsweredStatus struct {
	HasAnswered bool         `json:"has_answered"`
	LastAttempt *LastAttempt `json:"last_attempt"`
}
