// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/ballot-report/auth"
	"github.com/danielhkuo/ballot-report/cliparse"
	"github.com/danielhkuo/ballot-report/middleware"
	"github.com/danielhkuo/ballot-report/models"
)

type AuthHandler struct {
	users  *auth.Users
	cfg    cliparse.Config
	logger *zap.Logger
}

func NewAuthHandler(users *auth.Users, cfg cliparse.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg, logger: logger}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSalt)
	if err := h.users.Authenticate(req.Username, req.Password); err != nil {
		h.logger.Warn("login failed",
			zap.String("username", req.Username),
			zap.String("ip_hash", ipHash),
		)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, expires := auth.IssueSessionToken(req.Username, h.cfg.SessionSalt, h.cfg.SessionTTL, time.Now())
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login succeeded",
		zap.String("username", req.Username),
		zap.String("ip_hash", ipHash),
		zap.Time("expires_at", expires),
	)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Username:  req.Username,
		Token:     token,
		ExpiresAt: expires,
	})
}

// Logout handles POST /logout. Tokens are stateless, so this only clears
// the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
