package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"content-hub/internal/models"
	"content-hub/pkg/tasks"
)

// LeadSaver persists forwarded leads.
type LeadSaver interface {
	SaveLead(ctx context.Context, videoID string, payload json.RawMessage, capturedAt time.Time) (*models.Lead, error)
}

type TaskHandler struct {
	leads  LeadSaver
	logger *logrus.Logger
}

func NewTaskHandler(leads LeadSaver, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{leads: leads, logger: logger}
}

// HandleCaptureLeadTask stores a lead forwarded by the episodes page. The
// lead body is not interpreted.
func (h *TaskHandler) HandleCaptureLeadTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.CaptureLeadTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.VideoID == "" {
		return fmt.Errorf("lead task without video id: %w", asynq.SkipRetry)
	}

	lead, err := h.leads.SaveLead(ctx, p.VideoID, p.Lead, p.CapturedAt)
	if err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"lead_id":  lead.ID,
		"video_id": lead.VideoID,
	}).Info("Lead stored")
	return nil
}
