package handlers

import (
	"net/http"
	"time"

	"skillbridge/internal/app"
	"skillbridge/internal/common"
	"skillbridge/internal/http/middleware"
	"skillbridge/internal/http/response"
)

type AssistantHandler struct {
	assistant *app.AssistantService
	limiter   middleware.Limiter
}

func NewAssistantHandler(assistant *app.AssistantService, limiter middleware.Limiter) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, limiter: limiter}
}

type assistantRequest struct {
	Prompt string `json:"prompt"`
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("assistant:"+clientIP(r), 10, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "assistant rate limit exceeded", nil))
		return
	}
	reply, err := h.assistant.Chat(r.Context(), req.Prompt)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, reply)
}
