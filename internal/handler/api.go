package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheatvault-go/internal/auth"
	"github.com/cheatvault-go/internal/config"
	"github.com/cheatvault-go/internal/dao"
	"github.com/cheatvault-go/internal/errors"
)

// APIHandler handles authentication and account routes
type APIHandler struct {
	cfg     *config.Config
	jwtAuth *auth.JWTAuth
	userDAO *dao.UserDAO
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(cfg *config.Config, userDAO *dao.UserDAO) *APIHandler {
	expireHours := cfg.JWTExpire
	if expireHours <= 0 {
		expireHours = 48
	}
	return &APIHandler{
		cfg:     cfg,
		jwtAuth: auth.NewJWTAuth(cfg.JWTSecret, time.Duration(expireHours)*time.Hour),
		userDAO: userDAO,
	}
}

// JWT returns the token authority shared with the auth middleware
func (h *APIHandler) JWT() *auth.JWTAuth {
	return h.jwtAuth
}

// Login handles user authentication
func (h *APIHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request", err))
		return
	}

	if err := h.userDAO.Validate(req.Username, req.Password); err != nil {
		RespondError(c, errors.NewUnauthorized("Invalid username or password"))
		return
	}

	token, err := h.jwtAuth.GenerateToken(req.Username, auth.ScopeWrite)
	if err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to issue token", err))
		return
	}

	RespondSuccess(c, gin.H{
		"username": req.Username,
		"token":    token,
	})
}

// UpdatePasswd updates the calling user's password
func (h *APIHandler) UpdatePasswd(c *gin.Context) {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request", err))
		return
	}

	if len(req.NewPassword) < 8 {
		RespondError(c, errors.NewBadRequest("Password too short, at least 8 characters"))
		return
	}

	if err := h.userDAO.Validate(req.Username, req.Password); err != nil {
		RespondError(c, errors.NewUnauthorized("Invalid username or password"))
		return
	}

	if err := h.userDAO.UpdatePassword(req.Username, req.NewPassword); err != nil {
		RespondError(c, errors.NewInternalWithCause("Failed to update password", err))
		return
	}

	RespondSuccessMsg(c, "password updated")
}
