package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oakmart/storefront-web/internal/backend"
	"github.com/oakmart/storefront-web/internal/middleware"
	"github.com/oakmart/storefront-web/internal/notice"
	"github.com/oakmart/storefront-web/internal/session"
)

const msgAuthUnreachable = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register validates the form locally, then creates the account remotely.
func (h *handlers) Register(w http.ResponseWriter, r *http.Request) {
	ctx, notices := withNotices(r)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, ok := validateRegistration(req); !ok {
		notice.Publish(ctx, notice.ToneWarning, msg)
		writeJSON(w, http.StatusUnprocessableEntity, nil, notices.Drain())
		return
	}

	err := h.client.Register(ctx, backend.Credentials{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		if rejection, ok := backend.AsRejection(err); ok && rejection.Message != "" {
			notice.Publish(ctx, notice.ToneError, rejection.Message)
		} else {
			notice.Publish(ctx, notice.ToneError, msgAuthUnreachable)
		}
		writeJSON(w, http.StatusBadGateway, nil, notices.Drain())
		return
	}

	notice.Publish(ctx, notice.ToneSuccess, "Registered successfully")
	writeJSON(w, http.StatusCreated, nil, notices.Drain())
}

// Login authenticates against the backend and stores the identity in the
// session cookie.
func (h *handlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx, notices := withNotices(r)
	sess := session.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, ok := validateLogin(req); !ok {
		notice.Publish(ctx, notice.ToneWarning, msg)
		writeJSON(w, http.StatusUnprocessableEntity, nil, notices.Drain())
		return
	}

	result, err := h.client.Login(ctx, backend.Credentials{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		if rejection, ok := backend.AsRejection(err); ok && rejection.Message != "" {
			notice.Publish(ctx, notice.ToneError, rejection.Message)
		} else {
			notice.Publish(ctx, notice.ToneError, msgAuthUnreachable)
		}
		writeJSON(w, http.StatusBadGateway, nil, notices.Drain())
		return
	}

	sess.SignIn(result.Token, result.Username, result.Balance)
	notice.Publish(ctx, notice.ToneSuccess, "Logged in successfully")
	writeJSON(w, http.StatusOK, map[string]any{
		"username": result.Username,
		"balance":  result.Balance,
	}, notices.Drain())
}

// Logout clears the stored identity. Purely local; the backend holds no
// session state for this client.
func (h *handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Clear()
	writeJSON(w, http.StatusOK, nil, nil)
}

func validateRegistration(req registerRequest) (string, bool) {
	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		return "Username is a required field", false
	case len(username) < 6:
		return "Username must be at least 6 characters", false
	case req.Password == "":
		return "Password is a required field", false
	case len(req.Password) < 6:
		return "Password must be at least 6 characters", false
	case req.Password != req.ConfirmPassword:
		return "Passwords do not match", false
	}
	return "", true
}

func validateLogin(req loginRequest) (string, bool) {
	switch {
	case strings.TrimSpace(req.Username) == "":
		return "Username is a required field", false
	case req.Password == "":
		return "Password is a required field", false
	}
	return "", true
}
