package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"skillbridge/internal/domain/profile"
	"skillbridge/internal/http/handlers"
	"skillbridge/internal/http/metrics"
	httpmw "skillbridge/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ProfileHandler     *handlers.ProfileHandler
	TaskHandler        *handlers.TaskHandler
	ApplicationHandler *handlers.ApplicationHandler
	ChatHandler        *handlers.ChatHandler
	AssistantHandler   *handlers.AssistantHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *slog.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover,
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			metrics.Handler().ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/signup":
			r.deps.AuthHandler.SignUp(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.LogIn(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/logout":
			r.deps.AuthHandler.LogOut(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/reset-password":
			r.deps.AuthHandler.RequestPasswordReset(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/reset-password/confirm":
			r.deps.AuthHandler.ConfirmPasswordReset(w, req)
			return
		case req.Method == http.MethodPost && path == "/assistant/chat":
			r.deps.AssistantHandler.Chat(w, req)
			return
		}

		if path == "/auth/session" || strings.HasPrefix(path, "/profile") || strings.HasPrefix(path, "/tasks") || strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/chats") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/auth/session":
		r.deps.AuthHandler.Session(w, req)
		return
	case req.Method == http.MethodGet && path == "/profile":
		r.deps.ProfileHandler.Get(w, req)
		return
	case req.Method == http.MethodPut && path == "/profile":
		r.deps.ProfileHandler.Update(w, req)
		return
	case req.Method == http.MethodGet && path == "/tasks":
		r.deps.TaskHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/tasks/stream":
		r.deps.TaskHandler.Stream(w, req)
		return
	case req.Method == http.MethodPost && path == "/tasks":
		httpmw.RequireRole(profile.RoleRecruiter)(http.HandlerFunc(r.deps.TaskHandler.Post)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/tasks/"):
		r.deps.TaskHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireRole(profile.RoleStudent)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/stream":
		r.deps.ApplicationHandler.Stream(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(profile.RoleRecruiter)(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/chats":
		r.deps.ChatHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/chats/open":
		r.deps.ChatHandler.Open(w, req)
		return
	case req.Method == http.MethodGet && path == "/chats/stream":
		r.deps.ChatHandler.StreamChats(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/messages"):
		r.deps.ChatHandler.Messages(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/messages"):
		r.deps.ChatHandler.Send(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/messages/stream"):
		r.deps.ChatHandler.StreamMessages(w, req)
		return
	}

	http.NotFound(w, req)
}
