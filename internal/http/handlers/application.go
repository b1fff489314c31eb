package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"skillbridge/internal/app"
	"skillbridge/internal/common"
	"skillbridge/internal/domain/application"
	"skillbridge/internal/domain/profile"
	"skillbridge/internal/http/metrics"
	"skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
	"skillbridge/internal/livequery"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	streams      *livequery.Manager
	collector    *metrics.Collector
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, streams *livequery.Manager, collector *metrics.Collector, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, streams: streams, collector: collector, limiter: limiter}
}

type applyRequest struct {
	TaskID string `json:"taskId"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	taskID, err := common.ParseUUID(req.TaskID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"taskId": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + taskID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), taskID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	items, err := h.loadList(r.Context(), userID, role)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	load := func(ctx context.Context) (interface{}, error) {
		return h.loadList(ctx, userID, role)
	}
	serveStream(w, r, h.streams, h.collector, livequery.TopicApplications, load)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "status is required"}))
		return
	}
	updated, err := h.applications.SetStatus(r.Context(), applicationID, application.Status(req.Status), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) loadList(ctx context.Context, userID common.UUID, role profile.Role) ([]application.Application, error) {
	if role == profile.RoleRecruiter {
		return h.applications.ListForRecruiter(ctx, userID)
	}
	return h.applications.ListForStudent(ctx, userID)
}
