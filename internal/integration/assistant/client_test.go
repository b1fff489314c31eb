package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skillbridge/internal/common"
)

func modelReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(generateResponse{
		Candidates: []struct {
			Content content `json:"content"`
		}{{Content: content{Parts: []part{{Text: text}}}}},
	})
	require.NoError(t, err)
}

func testClient(serverURL string) *HTTPClient {
	client := NewClient(serverURL, "", nil)
	client.backoffBase = time.Millisecond
	return client
}

func TestGenerate_ReturnsModelText(t *testing.T) {
	var gotBody generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		modelReply(t, w, "Polish the summary section first.")
	}))
	defer server.Close()

	reply, err := testClient(server.URL).Generate(context.Background(), "How do I improve my resume?")
	require.NoError(t, err)
	require.Equal(t, "Polish the summary section first.", reply)

	require.Len(t, gotBody.Contents, 1)
	require.Equal(t, "How do I improve my resume?", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction)
	require.Len(t, gotBody.Tools, 1)
}

func TestGenerate_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		modelReply(t, w, "ok")
	}))
	defer server.Close()

	reply, err := testClient(server.URL).Generate(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "ok", reply)
	require.Equal(t, int32(3), calls.Load())
}

func TestGenerate_GivesUpAfterThreeRateLimits(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Generate(context.Background(), "hi")
	require.True(t, common.Is(err, common.CodeUnavailable))
	require.Equal(t, int32(3), calls.Load())
}

func TestGenerate_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Generate(context.Background(), "hi")
	require.True(t, common.Is(err, common.CodeUnavailable))
	require.Equal(t, int32(1), calls.Load())
}

func TestGenerate_CancelledContextStopsBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.backoffBase = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.Generate(ctx, "hi")
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestGenerate_AppendsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		modelReply(t, w, "ok")
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", nil)
	client.backoffBase = time.Millisecond
	_, err := client.Generate(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "secret-key", gotKey)
}
