package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Name, email and password"
// @Success 201 {object} model.CreatedResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req, msgValidationFailed) {
		return
	}

	if _, err := h.svc.Register(c.Request.Context(), req); err != nil {
		writeError(c, userKind, msgValidationFailed, err)
		return
	}

	c.JSON(http.StatusCreated, model.CreatedResponse{Response: userKind.created(), Errors: []string{}})
}

// Login godoc
// @Summary Login
// @Description Returns a bearer token and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req, msgValidationFailed) {
		return
	}

	issued, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, userKind, msgValidationFailed, err)
		return
	}

	h.setSessionCookie(c, issued.Token)
	c.JSON(http.StatusOK, model.LoginResponse{Token: issued.Token})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the session behind the bearer token and clears the cookie.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		token, _ = c.Cookie(h.svc.CookieConfig().Name)
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		writeError(c, userKind, msgValidationFailed, err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Successfully logged out"})
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} model.ErrorResponse
// @Router /api/user [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: msgUnauthorized})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
