package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/middleware"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/response"
	"github.com/medprep/medprep-backend/internal/service"
	"github.com/medprep/medprep-backend/internal/validator"
)

// AttemptHandler handles answer submission and attempt statistics.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Submit godoc
// POST /api/v1/questions/:id/submit
// Records an answer attempt and returns graded feedback.
func (h *AttemptHandler) Submit(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	externalID, _ := middleware.Identity(c)
	result, err := h.attemptService.Submit(c.Request.Context(), externalID, questionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		case errors.Is(err, service.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		case errors.Is(err, service.ErrAnswerNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrAnswerNotFound)
		case errors.Is(err, service.ErrAnswerMismatch):
			response.Fail(c, http.StatusBadRequest, response.ErrAnswerMismatch)
		case errors.Is(err, service.ErrQuestionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// History godoc
// GET /api/v1/questions/:id/history
// Anonymous callers get an empty list rather than an auth error.
func (h *AttemptHandler) History(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	externalID, _ := middleware.Identity(c)
	attempts, err := h.attemptService.History(c.Request.Context(), externalID, questionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if attempts == nil {
		attempts = []model.AttemptView{}
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// QuestionStats godoc
// GET /api/v1/questions/:id/stats
func (h *AttemptHandler) QuestionStats(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	stats, err := h.attemptService.QuestionStats(c.Request.Context(), questionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// HasAnswered godoc
// GET /api/v1/questions/:id/answered
func (h *AttemptHandler) HasAnswered(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	externalID, _ := middleware.Identity(c)
	status, err := h.attemptService.HasAnswered(c.Request.Context(), externalID, questionID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answered": status})
}

// Performance godoc
// GET /api/v1/me/performance
func (h *AttemptHandler) Performance(c *gin.Context) {
	externalID, _ := middleware.Identity(c)
	performance, err := h.attemptService.UserPerformance(c.Request.Context(), externalID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		case errors.Is(err, service.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"performance": performance})
}
