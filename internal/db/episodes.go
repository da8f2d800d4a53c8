package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"content-hub/internal/models"
)

// Direction is a sort direction for episode queries.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// EpisodeFilter restricts which episodes a query returns.
type EpisodeFilter struct {
	Status models.EpisodeStatus
}

// Order selects the sort column and direction of a query.
type Order struct {
	Field     string
	Direction Direction
}

// sortable columns; anything else is rejected before reaching SQL.
var orderFields = map[string]bool{
	"published_at":   true,
	"episode_number": true,
}

const episodeColumns = `id, episode_number, season_number, title, description, guest_name,
	duration_minutes, published_at, featured_image_url, status`

// EpisodeRepository reads episodes from the podcast_episodes table.
type EpisodeRepository struct {
	db *sqlx.DB
}

func NewEpisodeRepository(db *sqlx.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// Query returns the episodes matching filter, sorted by order.
func (r *EpisodeRepository) Query(ctx context.Context, filter EpisodeFilter, order Order) ([]models.Episode, error) {
	if !orderFields[order.Field] {
		return nil, fmt.Errorf("unsupported order field %q", order.Field)
	}
	if order.Direction != Ascending && order.Direction != Descending {
		return nil, fmt.Errorf("unsupported order direction %q", order.Direction)
	}

	query := fmt.Sprintf(`SELECT %s FROM podcast_episodes WHERE status = $1 ORDER BY %s %s`,
		episodeColumns, order.Field, order.Direction)

	var episodes []models.Episode
	if err := r.db.SelectContext(ctx, &episodes, query, filter.Status); err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	return episodes, nil
}

// ListPublished returns published episodes, newest first.
func (r *EpisodeRepository) ListPublished(ctx context.Context) ([]models.Episode, error) {
	return r.Query(ctx,
		EpisodeFilter{Status: models.EpisodeStatusPublished},
		Order{Field: "published_at", Direction: Descending})
}
