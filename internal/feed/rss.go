package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eduncan911/podcast"

	"content-hub/internal/models"
)

const (
	feedTitle       = "Latest Episodes"
	feedDescription = "Conversations, insights, and practical wisdom for culinary professionals at every level."
)

// BaseURL returns configured when set, else the URL the request came in on.
func BaseURL(configured string, r *http.Request) string {
	if configured != "" {
		return strings.TrimSuffix(configured, "/")
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders published episodes as a podcast feed. Episodes link
// back to the episodes page.
func GenerateRSS(baseURL string, episodes []models.Episode, now time.Time) (string, error) {
	var lastBuild *time.Time
	if len(episodes) > 0 {
		lastBuild = &episodes[0].PublishedAt
	} else {
		lastBuild = &now
	}

	p := podcast.New(feedTitle, baseURL+"/episodes", feedDescription, lastBuild, &now)
	p.Language = "en-us"

	for _, episode := range episodes {
		description := episode.Title
		if episode.Description != nil && *episode.Description != "" {
			description = *episode.Description
		}

		publishedAt := episode.PublishedAt
		item := podcast.Item{
			GUID:        episode.ID,
			Title:       episode.Title,
			Link:        fmt.Sprintf("%s/episodes#%s", baseURL, episode.ID),
			Description: description,
			PubDate:     &publishedAt,
		}
		item.AddDuration(int64(episode.DurationMinutes) * 60)
		if episode.FeaturedImageURL != nil && *episode.FeaturedImageURL != "" {
			item.AddImage(*episode.FeaturedImageURL)
		}
		if episode.GuestName != nil && *episode.GuestName != "" {
			item.IAuthor = *episode.GuestName
		}

		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("failed to add episode %s to feed: %w", episode.ID, err)
		}
	}

	return p.String(), nil
}
