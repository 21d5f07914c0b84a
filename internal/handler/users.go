package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size (default 10, max 100)"
// @Success 200 {object} model.Page[model.User]
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	result, err := h.svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		writeError(c, userKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Create a user
// @Description type=manual stores the given fields; type=auto generates a random user.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateUserRequest true "Creation request"
// @Success 201 {object} model.CreatedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.GenerationErrorResponse
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindJSON(c, &req, msgCreationFailed) {
		return
	}

	ctx := c.Request.Context()
	createResource(c, userKind, req.Type,
		func() error {
			_, err := h.svc.Create(ctx, req)
			return err
		},
		func() (*model.User, error) {
			return h.svc.Generate(ctx)
		},
	)
}

// Get godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := resourceID(c, userKind)
	if !ok {
		return
	}
	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, userKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update a user
// @Description Only the supplied fields change. A new password is re-hashed.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body model.UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := resourceID(c, userKind)
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if !bindJSON(c, &req, msgUpdateFailed) {
		return
	}
	user, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, userKind, msgUpdateFailed, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := resourceID(c, userKind)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, userKind, msgValidationFailed, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: userKind.deleted()})
}
