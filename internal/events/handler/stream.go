package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"notcluely/pkg/events"
	httputil "notcluely/pkg/http"
	"notcluely/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const heartbeatInterval = 30 * time.Second

// StreamHandler pushes domain events to clients over Server-Sent Events.
// Delivery is best effort: a listener that cannot keep up is dropped by
// the hub, and a closed connection just ends its stream.
type StreamHandler struct {
	hub *events.Hub
	log *logger.Logger
}

func NewStreamHandler(hub *events.Hub, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		log: log,
	}
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{
			Error: "Streaming not supported",
		})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.hub.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			// Comment line keeps idle connections open through proxies.
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error("failed to marshal event", "event_id", event.ID, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/events", h.Stream)
}
