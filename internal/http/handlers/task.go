package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"skillbridge/internal/app"
	"skillbridge/internal/common"
	"skillbridge/internal/domain/profile"
	"skillbridge/internal/domain/task"
	"skillbridge/internal/http/metrics"
	"skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
	"skillbridge/internal/livequery"
)

type TaskHandler struct {
	tasks     *app.TaskService
	streams   *livequery.Manager
	collector *metrics.Collector
}

func NewTaskHandler(tasks *app.TaskService, streams *livequery.Manager, collector *metrics.Collector) *TaskHandler {
	return &TaskHandler{tasks: tasks, streams: streams, collector: collector}
}

type taskRequest struct {
	Title           string   `json:"taskTitle"`
	Description     string   `json:"description"`
	Skills          []string `json:"selectedSkills"`
	Difficulty      string   `json:"difficulty"`
	Deadline        string   `json:"deadline"`
	ExpectedOutcome string   `json:"expectedOutcome"`
}

func (h *TaskHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid deadline", map[string]string{"deadline": "deadline must be YYYY-MM-DD"}))
		return
	}
	created, err := h.tasks.Post(r.Context(), task.Task{
		Title:           req.Title,
		Description:     req.Description,
		Skills:          req.Skills,
		Difficulty:      task.Difficulty(req.Difficulty),
		Deadline:        deadline,
		ExpectedOutcome: req.ExpectedOutcome,
		PostedBy:        userID,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List is role-aware the way the explore page is: students browse everything
// with filters, recruiters see only their own postings.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	items, err := h.loadList(r.Context(), userID, role, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := idFromPath(r, 0)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.tasks.Get(r.Context(), taskID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

// Stream delivers the caller's task list as a live snapshot sequence. A
// changed filter means the client drops this stream and opens a new one, so
// there is never more than one subscription per query shape.
func (h *TaskHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	load := func(ctx context.Context) (interface{}, error) {
		return h.loadList(ctx, userID, role, r)
	}
	serveStream(w, r, h.streams, h.collector, livequery.TopicTasks, load)
}

func (h *TaskHandler) loadList(ctx context.Context, userID common.UUID, role profile.Role, r *http.Request) ([]task.Task, error) {
	if role == profile.RoleRecruiter {
		return h.tasks.ListForRecruiter(ctx, userID)
	}
	filter := task.Filter{Difficulty: task.Difficulty(r.URL.Query().Get("difficulty"))}
	if skills := strings.TrimSpace(r.URL.Query().Get("skills")); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}
	return h.tasks.ListForStudent(ctx, filter, queryInt(r, "limit", 50), queryInt(r, "offset", 0))
}
