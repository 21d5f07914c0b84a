package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// List godoc
// @Summary List videos
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size (default 10, max 100)"
// @Success 200 {object} model.Page[model.Video]
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		writeError(c, videoKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create a video
// @Description type=manual stores the given fields; type=auto generates a random video.
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateVideoRequest true "Creation request"
// @Success 201 {object} model.CreatedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.GenerationErrorResponse
// @Router /api/videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	var req model.CreateVideoRequest
	if !bindJSON(c, &req, msgCreationFailed) {
		return
	}

	ctx := c.Request.Context()
	createResource(c, videoKind, req.Type,
		func() error {
			_, err := h.svc.Create(ctx, req)
			return err
		},
		func() (*model.Video, error) {
			return h.svc.Generate(ctx)
		},
	)
}

// Get godoc
// @Summary Get a video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} model.Video
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := resourceID(c, videoKind)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, videoKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update godoc
// @Summary Update a video
// @Description Only the supplied fields change.
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Param request body model.UpdateVideoRequest true "Fields to change"
// @Success 200 {object} model.Video
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/videos/{id} [put]
func (h *VideoHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, videoKind)
	if !ok {
		return
	}
	var req model.UpdateVideoRequest
	if !bindJSON(c, &req, msgUpdateFailed) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, videoKind, msgUpdateFailed, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a video
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Video ID"
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := resourceID(c, videoKind)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, videoKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: videoKind.deleted()})
}
