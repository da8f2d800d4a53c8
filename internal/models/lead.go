package models

import (
	"encoding/json"
	"time"
)

// Lead is a captured viewer conversion. Payload is stored as received.
type Lead struct {
	ID         int64           `db:"id"`
	VideoID    string          `db:"video_id"`
	Payload    json.RawMessage `db:"payload"`
	CapturedAt time.Time       `db:"captured_at"`
	CreatedAt  time.Time       `db:"created_at"`
}
