package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerChoice is one selectable option belonging to a question.
// Exactly one choice per question has IsCorrect set.
type AnswerChoice struct {
	ID           uuid.UUID `json:"id"`
	QuestionID   uuid.UUID `json:"question_id"`
	ChoiceText   string    `json:"choice_text"`
	ChoiceLetter string    `json:"choice_letter"`
	IsCorrect    bool      `json:"is_correct"`
	ImageBlobID  *string   `json:"image_blob_id,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// AnswerInput is one incoming answer choice in a create or replace payload.
// On replacement, an input carrying the ID of an existing choice patches that
// row in place; an input without an ID is inserted as a new choice.
type AnswerInput struct {
	ID           *uuid.UUID `json:"id" binding:"omitempty"`
	ChoiceText   string     `json:"choice_text" binding:"required,min=1,max=2000"`
	ChoiceLetter string     `json:"choice_letter" binding:"required,min=1,max=4"`
	IsCorrect    bool       `json:"is_correct"`
	ImageBlobID  *string    `json:"image_blob_id" binding:"omitempty,max=255"`
	DisplayOrder int        `json:"display_order" binding:"min=0"`
}

// ReplaceAnswersRequest is the payload for replacing a question's answer set.
type ReplaceAnswersRequest struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=2,dive"`
}
