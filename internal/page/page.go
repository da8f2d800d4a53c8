// Package page implements the episodes page: the content loader that fills
// the page state on mount, the tab selection, and the render selector that
// turns a state snapshot into a view.
//
// A Page is mounted once. Both fetches run concurrently and are joined with
// an all-settle barrier before loading is cleared. Every state mutation
// carries the generation it was started under and is dropped if the page has
// been unmounted since.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"content-hub/internal/db"
	"content-hub/internal/metrics"
	"content-hub/internal/models"
	"content-hub/internal/videos"
)

// EpisodesErrorMessage is the only text shown when episodes fail to load.
const EpisodesErrorMessage = "Failed to load episodes"

var (
	ErrAlreadyMounted = errors.New("page already mounted")
	ErrUnmounted      = errors.New("page unmounted")
)

// EpisodeRepository is the episode data source of the page.
type EpisodeRepository interface {
	Query(ctx context.Context, filter db.EpisodeFilter, order db.Order) ([]models.Episode, error)
}

// VideoService is the curated video source of the page.
type VideoService interface {
	GetVideoContent(ctx context.Context, filter videos.Filter) (*models.VideoContent, error)
}

// State is the in-memory view state of one mounted page.
type State struct {
	Episodes  []models.Episode
	Videos    []models.Video
	Loading   bool
	Error     string
	ActiveTab Tab
}

// HasError reports whether the episode fetch failed.
func (s State) HasError() bool {
	return s.Error != ""
}

// Page owns a State for the lifetime of a mount.
type Page struct {
	episodes EpisodeRepository
	videos   VideoService
	logger   *logrus.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	mounted     bool
	everMounted bool

	settled   chan struct{}
	unmounted chan struct{}
}

// New creates an unmounted page. Collaborators are injected so tests can
// substitute them.
func New(episodes EpisodeRepository, videos VideoService, logger *logrus.Logger) *Page {
	return &Page{
		episodes: episodes,
		videos:   videos,
		logger:   logger,
		state: State{
			Episodes:  []models.Episode{},
			Videos:    []models.Video{},
			Loading:   true,
			ActiveTab: TabPodcast,
		},
		settled:   make(chan struct{}),
		unmounted: make(chan struct{}),
	}
}

// Mount starts the content loader. It returns immediately; use Wait to block
// until both fetches have settled. The fetches ignore cancellation of ctx.
func (p *Page) Mount(ctx context.Context) error {
	p.mu.Lock()
	if p.everMounted {
		p.mu.Unlock()
		return ErrAlreadyMounted
	}
	p.everMounted = true
	p.mounted = true
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	metrics.PageMounts.Inc()
	go p.load(context.WithoutCancel(ctx), gen)
	return nil
}

// Unmount tears the page down. Results that arrive afterwards are discarded.
func (p *Page) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return
	}
	p.mounted = false
	p.generation++
	close(p.unmounted)
}

// Wait blocks until loading has finished, the page is unmounted, or ctx is
// done.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.settled:
		return nil
	case <-p.unmounted:
		return ErrUnmounted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SelectTab switches the active tab. It never triggers a fetch.
func (p *Page) SelectTab(tab Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTab, string(tab))
	}
	p.mu.Lock()
	p.state.ActiveTab = tab
	p.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current state. Collections are replaced,
// never mutated in place, so sharing their backing arrays is safe.
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Page) load(ctx context.Context, gen uint64) {
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.fetchEpisodes(ctx, gen)
	}()
	go func() {
		defer wg.Done()
		p.fetchVideos(ctx, gen)
	}()
	wg.Wait()

	if p.apply(gen, func(s *State) { s.Loading = false }) {
		close(p.settled)
		metrics.LoadDuration.Observe(time.Since(start).Seconds())
	}
}

func (p *Page) fetchEpisodes(ctx context.Context, gen uint64) {
	var episodes []models.Episode
	err := settle(func() (err error) {
		episodes, err = p.episodes.Query(ctx,
			db.EpisodeFilter{Status: models.EpisodeStatusPublished},
			db.Order{Field: "published_at", Direction: db.Descending})
		return err
	})
	if err != nil {
		p.logger.WithError(err).Error("Error fetching episodes")
		p.record(metrics.SourceEpisodes, metrics.OutcomeError,
			p.apply(gen, func(s *State) { s.Error = EpisodesErrorMessage }))
		return
	}

	if episodes == nil {
		episodes = []models.Episode{}
	}
	p.record(metrics.SourceEpisodes, metrics.OutcomeOK,
		p.apply(gen, func(s *State) { s.Episodes = episodes }))
}

func (p *Page) fetchVideos(ctx context.Context, gen uint64) {
	var content *models.VideoContent
	err := settle(func() (err error) {
		content, err = p.videos.GetVideoContent(ctx, videos.Filter{Featured: true})
		return err
	})
	if err != nil {
		p.logger.WithError(err).Warn("Error fetching videos")
		p.record(metrics.SourceVideos, metrics.OutcomeError, p.live(gen))
		return
	}
	if content == nil || !content.Success {
		p.logger.Debug("Video content service reported no content")
		p.record(metrics.SourceVideos, metrics.OutcomeUnavailable, p.live(gen))
		return
	}

	list := content.Videos
	if list == nil {
		list = []models.Video{}
	}
	p.record(metrics.SourceVideos, metrics.OutcomeOK,
		p.apply(gen, func(s *State) { s.Videos = list }))
}

// apply runs fn against the state if gen is still current.
func (p *Page) apply(gen uint64, fn func(s *State)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.current(gen) {
		return false
	}
	fn(&p.state)
	return true
}

// live reports whether a result started under gen would still be applied.
func (p *Page) live(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current(gen)
}

func (p *Page) current(gen uint64) bool {
	return p.mounted && gen == p.generation
}

func (p *Page) record(source, outcome string, applied bool) {
	if !applied {
		outcome = metrics.OutcomeDiscarded
		p.logger.WithField("source", source).Debug("Discarding fetch result for unmounted page")
	}
	metrics.Fetches.WithLabelValues(source, outcome).Inc()
}

// settle runs fn and turns a panic into an error so the join always completes.
func settle(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return fn()
}
