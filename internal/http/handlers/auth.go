package handlers

import (
	"net/http"
	"time"

	"skillbridge/internal/app"
	"skillbridge/internal/common"
	"skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
)

type AuthHandler struct {
	auth    *app.AuthService
	limiter middleware.Limiter
}

func NewAuthHandler(auth *app.AuthService, limiter middleware.Limiter) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter}
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type logInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	UID          string      `json:"uid"`
	Email        string      `json:"email"`
	DisplayName  string      `json:"displayName"`
	Role         string      `json:"role"`
	AccessToken  string      `json:"accessToken,omitempty"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresAt    *time.Time  `json:"expiresAt,omitempty"`
	Profile      interface{} `json:"profile,omitempty"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("signup:"+clientIP(r), 5, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "too many signup attempts", nil))
		return
	}
	session, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, sessionBody(session))
}

func (h *AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req logInRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("login:"+clientIP(r), 10, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "too many login attempts", nil))
		return
	}
	session, err := h.auth.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sessionBody(session))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresAt":    tokens.ExpiresAt,
	})
}

func (h *AuthHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.auth.LogOut(r.Context(), req.RefreshToken); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("reset:"+clientIP(r), 3, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "too many reset attempts", nil))
		return
	}
	if _, err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		response.Error(w, err)
		return
	}
	// Same answer whether or not the email exists.
	response.JSON(w, http.StatusOK, map[string]string{"status": "reset_requested"})
}

type confirmResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
}

// Session is the server-side "current user" read every page starts from.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	session, err := h.auth.CurrentSession(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sessionBody(session))
}

func sessionBody(session *app.Session) sessionResponse {
	body := sessionResponse{
		UID:         session.Account.ID.String(),
		Email:       session.Account.Email,
		DisplayName: session.Account.DisplayName,
		Role:        "student",
	}
	if session.Profile != nil {
		body.Role = string(session.Profile.Role)
		body.Profile = session.Profile
	}
	if session.Tokens != nil {
		body.AccessToken = session.Tokens.AccessToken
		body.RefreshToken = session.Tokens.RefreshToken
		body.ExpiresAt = &session.Tokens.ExpiresAt
	}
	return body
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
