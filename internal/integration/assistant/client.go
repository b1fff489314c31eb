package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skillbridge/internal/common"
)

const systemPrompt = "You are SkillBridge, an AI assistant for a website that bridges the gap between students and industry. Your primary goal is to help users with their resumes, career skills, and further studies. When a user asks a question, provide a helpful and encouraging response. If the query is related to resume building, improving skills, or finding courses, offer specific, actionable advice. If the user asks for something outside of this scope, gently redirect them back to the core topics of career development. You are professional, knowledgeable, and friendly."

// FallbackMessage is the user-facing reply when the upstream model cannot be
// reached, surfaced once per failed request.
const FallbackMessage = "Sorry, I'm having trouble connecting right now. Please try again in a moment."

const maxAttempts = 3

type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type HTTPClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	backoffBase time.Duration
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  httpClient,
		backoffBase: time.Second,
	}
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	Tools             []tool    `json:"tools,omitempty"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate posts the prompt to the model endpoint. HTTP 429 is retried with
// exponential backoff (1s base, doubling, 3 attempts total); any other
// failure is returned immediately.
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		Tools:             []tool{{}},
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to encode assistant request", err)
	}

	backoff := c.backoffBase
	var lastStatus int
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, status, err := c.post(ctx, body)
		if err != nil {
			return "", err
		}
		if status == http.StatusOK {
			return reply, nil
		}
		lastStatus = status
		if status != http.StatusTooManyRequests || attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", common.NewError(common.CodeUnavailable, "assistant request cancelled", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return "", common.NewError(common.CodeUnavailable, fmt.Sprintf("assistant endpoint returned status %d", lastStatus), nil)
}

func (c *HTTPClient) post(ctx context.Context, body []byte) (string, int, error) {
	url := c.baseURL
	if c.apiKey != "" {
		url += "?key=" + c.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, common.NewError(common.CodeInternal, "failed to build assistant request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, common.NewError(common.CodeUnavailable, "assistant endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, nil
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", resp.StatusCode, common.NewError(common.CodeUnavailable, "failed to decode assistant response", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", resp.StatusCode, common.NewError(common.CodeUnavailable, "assistant returned no candidates", nil)
	}
	return parsed.Candidates[0].Content.Parts[0].Text, resp.StatusCode, nil
}
