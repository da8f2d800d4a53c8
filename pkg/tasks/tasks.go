package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeCaptureLead = "lead:capture"
)

// CaptureLeadTaskPayload carries a lead exactly as the video player sent it.
type CaptureLeadTaskPayload struct {
	VideoID    string
	Lead       json.RawMessage
	CapturedAt time.Time
}

func NewCaptureLeadTask(videoID string, lead json.RawMessage, capturedAt time.Time) (*asynq.Task, error) {
	if !json.Valid(lead) {
		return nil, fmt.Errorf("lead payload is not valid JSON")
	}
	payload, err := json.Marshal(CaptureLeadTaskPayload{
		VideoID:    videoID,
		Lead:       lead,
		CapturedAt: capturedAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCaptureLead, payload, asynq.MaxRetry(10)), nil
}
