package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/response"
	"github.com/medprep/medprep-backend/internal/service"
	"github.com/medprep/medprep-backend/internal/validator"
)

// QuestionHandler handles question listing and admin management.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListActive godoc
// GET /api/v1/questions
// Lists active questions; ?category_id= filters by category membership.
func (h *QuestionHandler) ListActive(c *gin.Context) {
	var (
		questions []model.Question
		err       error
	)

	if raw := c.Query("category_id"); raw != "" {
		categoryID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		questions, err = h.questionService.ListByCategory(c.Request.Context(), categoryID)
	} else {
		questions, err = h.questionService.ListActive(c.Request.Context())
	}

	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if questions == nil {
		questions = []model.Question{}
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ListAll godoc
// GET /api/v1/admin/questions
// Lists every question including inactive drafts.
func (h *QuestionHandler) ListAll(c *gin.Context) {
	questions, err := h.questionService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if questions == nil {
		questions = []model.Question{}
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// GetWithAnswers godoc
// GET /api/v1/questions/:id
// An absent question yields a null body, not a lookup error.
func (h *QuestionHandler) GetWithAnswers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.GetWithAnswers(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if question == nil {
		response.Success(c, http.StatusOK, gin.H{"question": nil})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Create godoc
// POST /api/v1/admin/questions
// Creates a question together with its full answer set.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question := &model.Question{
		QuestionText: req.QuestionText,
		ImageBlobID:  req.ImageBlobID,
		AudioBlobID:  req.AudioBlobID,
		VideoBlobID:  req.VideoBlobID,
		Difficulty:   model.Difficulty(req.Difficulty),
		Explanation:  req.Explanation,
		CategoryIDs:  req.CategoryIDs,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	}

	if err := h.questionService.Create(c.Request.Context(), question, req.Answers); err != nil {
		switch {
		case errors.Is(err, service.ErrOneCorrectAnswer):
			response.Fail(c, http.StatusBadRequest, response.ErrOneCorrectAnswer)
		case errors.Is(err, service.ErrUnknownCategory):
			response.Fail(c, http.StatusBadRequest, response.ErrCategoryNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PUT /api/v1/admin/questions/:id
// Patches question fields; answer choices are managed separately.
func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuestionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrUnknownCategory):
			response.Fail(c, http.StatusBadRequest, response.ErrCategoryNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// ReplaceAnswers godoc
// PUT /api/v1/admin/questions/:id/answers
// Replaces the question's answer set via diff-by-id reconciliation.
func (h *QuestionHandler) ReplaceAnswers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReplaceAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answers, err := h.questionService.ReplaceAnswers(c.Request.Context(), id, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOneCorrectAnswer):
			response.Fail(c, http.StatusBadRequest, response.ErrOneCorrectAnswer)
		case errors.Is(err, service.ErrQuestionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	if answers == nil {
		answers = []model.AnswerChoice{}
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// Delete godoc
// DELETE /api/v1/admin/questions/:id
// Removes the question and all of its answer choices.
func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "question deleted successfully"})
}
