package models

import "time"

// EpisodeStatus is the publication state of an episode.
type EpisodeStatus string

const (
	EpisodeStatusDraft     EpisodeStatus = "draft"
	EpisodeStatusPublished EpisodeStatus = "published"
	EpisodeStatusArchived  EpisodeStatus = "archived"
)

// Episode is a podcast episode record as stored in podcast_episodes.
type Episode struct {
	ID               string        `db:"id" json:"id"`
	EpisodeNumber    int           `db:"episode_number" json:"episode_number"`
	SeasonNumber     int           `db:"season_number" json:"season_number"`
	Title            string        `db:"title" json:"title"`
	Description      *string       `db:"description" json:"description,omitempty"`
	GuestName        *string       `db:"guest_name" json:"guest_name,omitempty"`
	DurationMinutes  int           `db:"duration_minutes" json:"duration_minutes"`
	PublishedAt      time.Time     `db:"published_at" json:"published_at"`
	FeaturedImageURL *string       `db:"featured_image_url" json:"featured_image_url,omitempty"`
	Status           EpisodeStatus `db:"status" json:"status"`
}
