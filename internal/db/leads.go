package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"content-hub/internal/models"
)

// LeadStore persists captured video leads.
type LeadStore struct {
	db *sqlx.DB
}

func NewLeadStore(db *sqlx.DB) *LeadStore {
	return &LeadStore{db: db}
}

// SaveLead stores the payload untouched in the jsonb payload column.
func (s *LeadStore) SaveLead(ctx context.Context, videoID string, payload json.RawMessage, capturedAt time.Time) (*models.Lead, error) {
	query := `
		INSERT INTO video_leads (video_id, payload, captured_at)
		VALUES ($1, $2, $3)
		RETURNING id, video_id, payload, captured_at, created_at
	`
	lead := &models.Lead{}
	if err := s.db.GetContext(ctx, lead, query, videoID, string(payload), capturedAt); err != nil {
		return nil, fmt.Errorf("failed to save lead for video %s: %w", videoID, err)
	}
	return lead, nil
}
