package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"content-hub/internal/models"
	"content-hub/internal/page"
	"content-hub/pkg/tasks"
)

// EpisodeStore is the episode source used by the page and the feed.
type EpisodeStore interface {
	page.EpisodeRepository
	ListPublished(ctx context.Context) ([]models.Episode, error)
}

// Config carries the render and URL settings of the handlers.
type Config struct {
	Render  page.Options
	BaseURL string
}

type Handlers struct {
	templates   *template.Template
	asynqClient tasks.TaskEnqueuer
	episodes    EpisodeStore
	videos      page.VideoService
	sessions    *page.Registry
	cfg         Config
	logger      *logrus.Logger
}

func New(templates *template.Template, asynqClient tasks.TaskEnqueuer, episodes EpisodeStore, videos page.VideoService,
	sessions *page.Registry, cfg Config, logger *logrus.Logger) *Handlers {
	return &Handlers{
		templates:   templates,
		asynqClient: asynqClient,
		episodes:    episodes,
		videos:      videos,
		sessions:    sessions,
		cfg:         cfg,
		logger:      logger,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
