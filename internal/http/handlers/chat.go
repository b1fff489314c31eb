package handlers

import (
	"context"
	"net/http"
	"time"

	"skillbridge/internal/app"
	"skillbridge/internal/common"
	"skillbridge/internal/http/metrics"
	"skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
	"skillbridge/internal/livequery"
)

type ChatHandler struct {
	chats     *app.ChatService
	streams   *livequery.Manager
	collector *metrics.Collector
	limiter   middleware.Limiter
}

func NewChatHandler(chats *app.ChatService, streams *livequery.Manager, collector *metrics.Collector, limiter middleware.Limiter) *ChatHandler {
	return &ChatHandler{chats: chats, streams: streams, collector: collector, limiter: limiter}
}

type openChatRequest struct {
	UserID string `json:"userId"`
}

// Open resolves a conversation with another user. Both sides land on the
// same record no matter who opens first.
func (h *ChatHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req openChatRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	otherID, err := common.ParseUUID(req.UserID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"userId": "invalid uuid"}))
		return
	}
	opened, err := h.chats.Open(r.Context(), userID, otherID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, opened)
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.chats.ListChats(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// StreamChats follows the caller's chat list ordered by latest activity.
func (h *ChatHandler) StreamChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	load := func(ctx context.Context) (interface{}, error) {
		return h.chats.ListChats(ctx, userID)
	}
	serveStream(w, r, h.streams, h.collector, livequery.TopicChats(userID), load)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	chatID, err := segmentFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "msg:" + chatID + ":" + userID.String()
		if !h.limiter.Allow(key, 1, 2*time.Second) {
			response.Error(w, common.NewError(common.CodeRateLimited, "messages are sent too frequently", nil))
			return
		}
	}
	created, err := h.chats.Send(r.Context(), chatID, userID, req.Text)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	chatID, err := segmentFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.chats.Messages(r.Context(), chatID, userID, queryInt(r, "limit", 100), queryInt(r, "offset", 0))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// StreamMessages follows one conversation in createdAt order.
func (h *ChatHandler) StreamMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	chatID, err := segmentFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	load := func(ctx context.Context) (interface{}, error) {
		return h.chats.Messages(ctx, chatID, userID, 500, 0)
	}
	serveStream(w, r, h.streams, h.collector, livequery.TopicMessages(chatID), load)
}
