package handlers

import (
	"net/http"
	"time"

	"content-hub/internal/feed"
)

func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.episodes.ListPublished(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Error getting episodes for feed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(feed.BaseURL(h.cfg.BaseURL, r), episodes, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Error generating RSS")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
