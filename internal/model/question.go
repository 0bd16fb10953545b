package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single multiple-choice practice item. CategoryIDs is the set
// of categories the question belongs to (at least one).
type Question struct {
	ID           uuid.UUID   `json:"id"`
	QuestionText string      `json:"question_text"`
	ImageBlobID  *string     `json:"image_blob_id,omitempty"`
	AudioBlobID  *string     `json:"audio_blob_id,omitempty"`
	VideoBlobID  *string     `json:"video_blob_id,omitempty"`
	Difficulty   Difficulty  `json:"difficulty"`
	Explanation  string      `json:"explanation"`
	CategoryIDs  []uuid.UUID `json:"category_ids"`
	IsActive     bool        `json:"is_active"`
	DisplayOrder *int        `json:"display_order,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// QuestionWithAnswers bundles a question with its answer choices
// sorted by display order ascending.
type QuestionWithAnswers struct {
	Question
	Answers []AnswerChoice `json:"answers"`
}

// CreateQuestionRequest is the payload for creating a question together with
// its full answer set. Exactly one answer must be marked correct.
type CreateQuestionRequest struct {
	QuestionText string        `json:"question_text" binding:"required,min=1,max=5000"`
	ImageBlobID  *string       `json:"image_blob_id" binding:"omitempty,max=255"`
	AudioBlobID  *string       `json:"audio_blob_id" binding:"omitempty,max=255"`
	VideoBlobID  *string       `json:"video_blob_id" binding:"omitempty,max=255"`
	Difficulty   string        `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Explanation  string        `json:"explanation" binding:"required,min=1,max=10000"`
	CategoryIDs  []uuid.UUID   `json:"category_ids" binding:"required,min=1"`
	IsActive     bool          `json:"is_active"`
	DisplayOrder *int          `json:"display_order" binding:"omitempty,min=0"`
	Answers      []AnswerInput `json:"answers" binding:"required,min=2,dive"`
}

// UpdateQuestionRequest is the payload for partially updating a question.
// Answer choices are managed separately through the answer replacement
// endpoint; nil fields are left untouched.
type UpdateQuestionRequest struct {
	QuestionText *string      `json:"question_text" binding:"omitempty,min=1,max=5000"`
	ImageBlobID  *string      `json:"image_blob_id" binding:"omitempty,max=255"`
	AudioBlobID  *string      `json:"audio_blob_id" binding:"omitempty,max=255"`
	VideoBlobID  *string      `json:"video_blob_id" binding:"omitempty,max=255"`
	Difficulty   *string      `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Explanation  *string      `json:"explanation" binding:"omitempty,min=1,max=10000"`
	CategoryIDs  *[]uuid.UUID `json:"category_ids" binding:"omitempty,min=1"`
	IsActive     *bool        `json:"is_active"`
	DisplayOrder *int         `json:"display_order" binding:"omitempty,min=0"`
}
