package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medprep/medprep-backend/internal/response"
	"github.com/medprep/medprep-backend/internal/service"
)

// MediaHandler handles media blob uploads for question and category assets.
type MediaHandler struct {
	mediaService *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload godoc
// POST /api/v1/admin/media
// Accepts a multipart "file" field and returns the new blob id and URL.
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	blobID, url, err := h.mediaService.SaveUpload(file, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"blob_id": blobID,
		"url":     url,
	})
}

// GetMetadata godoc
// GET /api/v1/admin/media/:blob_id
func (h *MediaHandler) GetMetadata(c *gin.Context) {
	meta, err := h.mediaService.Stat(c.Param("blob_id"))
	if err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"metadata": meta})
}

// Delete godoc
// DELETE /api/v1/admin/media/:blob_id
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.mediaService.Delete(c.Param("blob_id")); err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "media deleted successfully"})
}
