package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/service"
)

type ChallengeHandler struct {
	svc *service.ChallengeService
}

func NewChallengeHandler(svc *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

// List godoc
// @Summary List challenges
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size (default 10, max 100)"
// @Success 200 {object} model.Page[model.Challenge]
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/challenges [get]
func (h *ChallengeHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		writeError(c, challengeKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create a challenge
// @Description type=manual stores the given fields; type=auto generates a random challenge.
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateChallengeRequest true "Creation request"
// @Success 201 {object} model.CreatedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.GenerationErrorResponse
// @Router /api/challenges [post]
func (h *ChallengeHandler) Create(c *gin.Context) {
	var req model.CreateChallengeRequest
	if !bindJSON(c, &req, msgCreationFailed) {
		return
	}

	ctx := c.Request.Context()
	createResource(c, challengeKind, req.Type,
		func() error {
			_, err := h.svc.Create(ctx, req)
			return err
		},
		func() (*model.Challenge, error) {
			return h.svc.Generate(ctx)
		},
	)
}

// Get godoc
// @Summary Get a challenge
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} model.Challenge
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/challenges/{id} [get]
func (h *ChallengeHandler) Get(c *gin.Context) {
	id, ok := resourceID(c, challengeKind)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, challengeKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update godoc
// @Summary Update a challenge
// @Description Only the supplied fields change.
// @Tags challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Param request body model.UpdateChallengeRequest true "Fields to change"
// @Success 200 {object} model.Challenge
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/challenges/{id} [put]
func (h *ChallengeHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, challengeKind)
	if !ok {
		return
	}
	var req model.UpdateChallengeRequest
	if !bindJSON(c, &req, msgUpdateFailed) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, challengeKind, msgUpdateFailed, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete a challenge
// @Tags challenges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Challenge ID"
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/challenges/{id} [delete]
func (h *ChallengeHandler) Delete(c *gin.Context) {
	id, ok := resourceID(c, challengeKind)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, challengeKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: challengeKind.deleted()})
}
