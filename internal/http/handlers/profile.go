package handlers

import (
	"net/http"

	"skillbridge/internal/app"
	"skillbridge/internal/domain/profile"
	"skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	p, err := h.profiles.Resolve(r.Context(), userID, "", "")
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

type profileUpdateRequest struct {
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Education   string `json:"education"`
	College     string `json:"college"`
	City        string `json:"city"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.profiles.Update(r.Context(), userID, profile.Profile{
		DisplayName: req.DisplayName,
		Role:        profile.Role(req.Role),
		Education:   req.Education,
		College:     req.College,
		City:        req.City,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
