package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"content-hub/internal/metrics"
	"content-hub/pkg/tasks"
)

const maxLeadBytes = 64 << 10

// CaptureLead receives the video player's lead capture callback and forwards
// the payload to the worker as is.
func (h *Handlers) CaptureLead(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["videoID"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLeadBytes+1))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if len(body) > maxLeadBytes {
		http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "Lead payload must be JSON", http.StatusBadRequest)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"bytes":    len(body),
	}).Info("Video lead captured")

	task, err := tasks.NewCaptureLeadTask(videoID, body, time.Now().UTC())
	if err != nil {
		h.logger.WithError(err).Error("Error creating lead task")
		metrics.LeadsCaptured.WithLabelValues(metrics.OutcomeError).Inc()
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.asynqClient.Enqueue(task); err != nil {
		h.logger.WithError(err).WithField("video_id", videoID).Error("Error enqueuing lead task")
		metrics.LeadsCaptured.WithLabelValues(metrics.OutcomeError).Inc()
		http.Error(w, "Lead capture unavailable", http.StatusServiceUnavailable)
		return
	}

	metrics.LeadsCaptured.WithLabelValues(metrics.OutcomeOK).Inc()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
