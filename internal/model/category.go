package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a topical grouping for questions, addressed by a unique slug.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	IconBlobID  *string   `json:"icon_blob_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithStats annotates a category with a live count of active
// questions referencing it. The count is computed per call, never stored.
type CategoryWithStats struct {
	Category
	QuestionCount int `json:"question_count"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Slug        string  `json:"slug" binding:"required,min=1,max=255,slug"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Color       *string `json:"color" binding:"omitempty,max=32"`
	IconBlobID  *string `json:"icon_blob_id" binding:"omitempty,max=255"`
}

// UpdateCategoryRequest is the payload for partially updating a category.
// Nil fields are left untouched.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,min=1,max=255,slug"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Color       *string `json:"color" binding:"omitempty,max=32"`
	IconBlobID  *string `json:"icon_blob_id" binding:"omitempty,max=255"`
}
