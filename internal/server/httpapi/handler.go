// Package httpapi exposes the auth and session services over HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/listora/listora/internal/common"
	"github.com/listora/listora/internal/logging"
	"github.com/listora/listora/internal/server/auth"
	"github.com/listora/listora/internal/server/config"
	"github.com/listora/listora/internal/server/models"
	"github.com/listora/listora/internal/server/services"
)

// Handler wires the service layer into gin routes.
type Handler struct {
	auth     *services.AuthService
	sessions *services.SessionService
	issuer   *auth.Issuer
	logger   logging.Logger
	cfg      *config.Config
}

// NewHandler creates a Handler over the given services.
func NewHandler(authSvc *services.AuthService, sessions *services.SessionService, issuer *auth.Issuer, logger logging.Logger, cfg *config.Config) *Handler {
	return &Handler{auth: authSvc, sessions: sessions, issuer: issuer, logger: logger, cfg: cfg}
}

// Router builds the gin engine with all routes attached.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.healthz)

	v1 := r.Group("/api/v1/auth")
	v1.POST("/register", h.register)
	v1.POST("/login", h.login)
	v1.POST("/refresh", h.refresh)
	v1.POST("/verify-email", h.verifyEmail)
	v1.POST("/logout", h.requireAccessToken(), h.logout)

	return r
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Status    string `json:"status"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    string(u.Status),
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.fail(c, err)
		return
	}

	// the token reaches the user out of band; mail delivery is not this
	// service's concern. The raw token goes to the log only outside
	// production.
	if token, err := h.auth.VerificationToken(user.ID); err == nil {
		if h.cfg.IsProduction() {
			h.logger.Info(c.Request.Context(), "verification token issued", "user_id", user.ID)
		} else {
			h.logger.Info(c.Request.Context(), "verification token issued", "user_id", user.ID, "token", token)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	pair, err := h.sessions.Issue(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          toUserResponse(user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type verifyEmailRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	verified, err := h.auth.VerifyEmail(c.Request.Context(), req.UserID, req.Token)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

func (h *Handler) logout(c *gin.Context) {
	userID := c.GetString(ctxKeyUserID)

	revoked, err := h.sessions.Disconnect(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail translates service errors into HTTP responses. Anything unmapped is a
// 500 with the detail kept out of the body.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
