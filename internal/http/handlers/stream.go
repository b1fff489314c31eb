package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"skillbridge/internal/common"
	"skillbridge/internal/http/metrics"
	"skillbridge/internal/http/response"
	"skillbridge/internal/livequery"
)

// serveStream runs one live-query subscription over SSE. The stream is
// cancelled on every exit path: the deferred Cancel makes teardown
// structurally unavoidable, and the request context ties the subscription
// lifetime to the client connection.
func serveStream(w http.ResponseWriter, r *http.Request, manager *livequery.Manager, collector *metrics.Collector, topic string, load livequery.LoadFunc) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, common.NewError(common.CodeInternal, "streaming unsupported", nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	deliver := func(snapshot interface{}) error {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
	onError := func(err error) {
		// Keep the prior snapshot on the client; just surface the failure.
		_, _ = fmt.Fprintf(w, "event: error\ndata: %q\n\n", "failed to load")
		flusher.Flush()
	}

	stream, err := manager.Open(r.Context(), topic, load, deliver, onError)
	if err != nil {
		_, _ = fmt.Fprintf(w, "event: error\ndata: %q\n\n", "failed to load")
		flusher.Flush()
		return
	}
	defer stream.Cancel()

	if collector != nil {
		collector.StreamOpened()
		defer collector.StreamClosed()
	}

	<-r.Context().Done()
}
