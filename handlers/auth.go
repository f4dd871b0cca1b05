// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/danielhkuo/calon-vote/auth"
	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/cookie"
	"github.com/danielhkuo/calon-vote/middleware"
	"github.com/danielhkuo/calon-vote/models"
)

const maxLoginBody = 16 << 10

type AuthHandler struct {
	verifier auth.Verifier
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewAuthHandler(verifier auth.Verifier, sessions *auth.Sessions, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{verifier: verifier, sessions: sessions, cfg: cfg}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)

	password, err := readPassword(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid login form")
		return
	}

	if !h.verifier.Verify(password) {
		slog.Warn("admin login failed",
			"request_id", middleware.RequestID(r.Context()),
			"client_ip", middleware.GetClientIP(r),
		)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	cookie.Set(w, h.sessions.Issue())
	slog.Info("admin logged in", "client_ip", middleware.GetClientIP(r))

	middleware.TextResponse(w, http.StatusOK, "ok")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie.Set(w, h.sessions.Revoke())
	http.Redirect(w, r, h.cfg.LogoutRedirect, http.StatusFound)
}

// PageAdmin handles GET /pageadmin/ - the admin UI itself is served elsewhere
func (h *AuthHandler) PageAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Validate(r) {
		http.Redirect(w, r, h.cfg.LogoutRedirect, http.StatusFound)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	middleware.TextResponse(w, http.StatusOK, "Admin page")
}

// readPassword accepts a JSON body or a url-encoded/multipart form
func readPassword(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req models.LoginRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return "", err
		}
		return req.Password, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxLoginBody); err != nil {
			return "", err
		}
	} else if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue("password"), nil
}
