package page

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-hub/internal/db"
	"content-hub/internal/metrics"
	"content-hub/internal/models"
	"content-hub/internal/test"
	"content-hub/internal/videos"
)

type fakeEpisodes struct {
	episodes []models.Episode
	err      error
	panicMsg string
	release  chan struct{}

	calls     int32
	gotFilter db.EpisodeFilter
	gotOrder  db.Order
}

func (f *fakeEpisodes) Query(ctx context.Context, filter db.EpisodeFilter, order db.Order) ([]models.Episode, error) {
	atomic.AddInt32(&f.calls, 1)
	f.gotFilter, f.gotOrder = filter, order
	if f.release != nil {
		<-f.release
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.episodes, f.err
}

type fakeVideos struct {
	content *models.VideoContent
	err     error
	release chan struct{}
	called  chan struct{}

	calls     int32
	gotFilter videos.Filter
}

func (f *fakeVideos) GetVideoContent(ctx context.Context, filter videos.Filter) (*models.VideoContent, error) {
	atomic.AddInt32(&f.calls, 1)
	f.gotFilter = filter
	if f.called != nil {
		close(f.called)
	}
	if f.release != nil {
		<-f.release
	}
	return f.content, f.err
}

func makeEpisodes(n int) []models.Episode {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Episode, n)
	for i := range out {
		out[i] = models.Episode{
			ID:            string(rune('a' + i)),
			EpisodeNumber: n - i,
			SeasonNumber:  1,
			Title:         "Episode title",
			PublishedAt:   base.AddDate(0, 0, -i),
			Status:        models.EpisodeStatusPublished,
		}
	}
	return out
}

func makeVideos(n int) []models.Video {
	out := make([]models.Video, n)
	for i := range out {
		out[i] = models.Video{VideoID: string(rune('v' + i)), Title: "Video", VideoType: "tutorial"}
	}
	return out
}

func mountAndWait(t *testing.T, p *Page) State {
	t.Helper()
	require.NoError(t, p.Mount(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
	return p.Snapshot()
}

func TestNewPageStartsLoadingOnPodcastTab(t *testing.T) {
	p := New(&fakeEpisodes{}, &fakeVideos{}, test.NewLogger())
	s := p.Snapshot()
	assert.True(t, s.Loading)
	assert.Equal(t, TabPodcast, s.ActiveTab)
	assert.Empty(t, s.Episodes)
	assert.Empty(t, s.Videos)
	assert.False(t, s.HasError())
}

func TestLoaderQueriesPublishedNewestFirstAndFeaturedVideos(t *testing.T) {
	eps := &fakeEpisodes{}
	vids := &fakeVideos{content: &models.VideoContent{Success: true}}
	mountAndWait(t, New(eps, vids, test.NewLogger()))

	assert.Equal(t, models.EpisodeStatusPublished, eps.gotFilter.Status)
	assert.Equal(t, db.Order{Field: "published_at", Direction: db.Descending}, eps.gotOrder)
	assert.True(t, vids.gotFilter.Featured)
}

func TestScenarioEpisodesLoadVideosUnavailable(t *testing.T) {
	p := New(
		&fakeEpisodes{episodes: makeEpisodes(3)},
		&fakeVideos{content: &models.VideoContent{Success: false, Videos: makeVideos(2)}},
		test.NewLogger())

	s := mountAndWait(t, p)
	assert.False(t, s.Loading)
	assert.False(t, s.HasError())
	assert.Len(t, s.Episodes, 3)
	assert.Empty(t, s.Videos)

	require.NoError(t, p.SelectTab(TabVideo))
	view := Select(p.Snapshot(), Options{})
	require.NotNil(t, view.Video)
	require.NotNil(t, view.Video.EmptyState)
	assert.Equal(t, "Video Content Coming Soon", view.Video.EmptyState.Title)
	assert.Empty(t, view.Video.Cards)
}

func TestScenarioEpisodeFailureDoesNotHideVideos(t *testing.T) {
	p := New(
		&fakeEpisodes{err: errors.New("dial tcp: connection refused")},
		&fakeVideos{content: &models.VideoContent{Success: true, Videos: makeVideos(2)}},
		test.NewLogger())

	s := mountAndWait(t, p)
	assert.Equal(t, EpisodesErrorMessage, s.Error)
	assert.Empty(t, s.Episodes)
	assert.Len(t, s.Videos, 2)

	require.NoError(t, p.SelectTab(TabVideo))
	view := Select(p.Snapshot(), Options{})
	require.NotNil(t, view.Video)
	assert.Len(t, view.Video.Cards, 2)
	assert.Nil(t, view.Video.EmptyState)
	require.NotNil(t, view.Error)
	assert.Equal(t, "Failed to load episodes", view.Error.Message)
	assert.Equal(t, "Try Again", view.Error.ActionLabel)
}

func TestScenarioBothEmpty(t *testing.T) {
	p := New(
		&fakeEpisodes{episodes: nil},
		&fakeVideos{content: &models.VideoContent{Success: true, Videos: nil}},
		test.NewLogger())

	s := mountAndWait(t, p)
	assert.False(t, s.Loading)
	assert.False(t, s.HasError())
	assert.NotNil(t, s.Episodes)
	assert.Empty(t, s.Episodes)
	assert.Empty(t, s.Videos)

	podcast := Select(s, Options{PlayerEmbedURL: "https://player.example/show"})
	require.NotNil(t, podcast.Podcast)
	assert.Equal(t, "https://player.example/show", podcast.Podcast.PlayerEmbedURL)
	assert.False(t, podcast.Podcast.ShowEpisodeList())
	assert.Nil(t, podcast.Error)

	require.NoError(t, p.SelectTab(TabVideo))
	video := Select(p.Snapshot(), Options{})
	require.NotNil(t, video.Video.EmptyState)
}

func TestLoadingClearsOnlyAfterBothSettle(t *testing.T) {
	eps := &fakeEpisodes{episodes: makeEpisodes(1), release: make(chan struct{})}
	vids := &fakeVideos{err: errors.New("timeout"), called: make(chan struct{})}
	p := New(eps, vids, test.NewLogger())
	require.NoError(t, p.Mount(context.Background()))

	<-vids.called
	assert.Never(t, func() bool { return !p.Snapshot().Loading }, 100*time.Millisecond, 5*time.Millisecond)

	close(eps.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))

	s := p.Snapshot()
	assert.False(t, s.Loading)
	assert.Len(t, s.Episodes, 1)
	// A failed secondary fetch never surfaces an error.
	assert.False(t, s.HasError())
	assert.Empty(t, s.Videos)
}

func TestEpisodeOrderIsKeptAsReturned(t *testing.T) {
	returned := makeEpisodes(4)
	// Deliberately not newest first; the page must not re-sort.
	returned[0], returned[3] = returned[3], returned[0]
	p := New(&fakeEpisodes{episodes: returned}, &fakeVideos{err: errors.New("down")}, test.NewLogger())

	s := mountAndWait(t, p)
	require.Len(t, s.Episodes, 4)
	for i := range returned {
		assert.Equal(t, returned[i].ID, s.Episodes[i].ID)
	}
}

func TestTabSelectionNeverFetches(t *testing.T) {
	eps := &fakeEpisodes{episodes: makeEpisodes(2)}
	vids := &fakeVideos{content: &models.VideoContent{Success: true, Videos: makeVideos(3)}}
	p := New(eps, vids, test.NewLogger())
	before := mountAndWait(t, p)

	for i := 0; i < 10; i++ {
		require.NoError(t, p.SelectTab(TabVideo))
		require.NoError(t, p.SelectTab(TabVideo))
		require.NoError(t, p.SelectTab(TabPodcast))
	}

	after := p.Snapshot()
	assert.Equal(t, TabPodcast, after.ActiveTab)
	assert.Equal(t, before.Episodes, after.Episodes)
	assert.Equal(t, before.Videos, after.Videos)
	assert.Equal(t, int32(1), atomic.LoadInt32(&eps.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&vids.calls))
}

func TestSelectInvalidTab(t *testing.T) {
	p := New(&fakeEpisodes{}, &fakeVideos{}, test.NewLogger())
	err := p.SelectTab("transcripts")
	assert.ErrorIs(t, err, ErrInvalidTab)
	assert.Equal(t, TabPodcast, p.Snapshot().ActiveTab)
}

func TestMountOnlyOnce(t *testing.T) {
	eps := &fakeEpisodes{}
	p := New(eps, &fakeVideos{}, test.NewLogger())
	mountAndWait(t, p)
	assert.ErrorIs(t, p.Mount(context.Background()), ErrAlreadyMounted)
	assert.Equal(t, int32(1), atomic.LoadInt32(&eps.calls))
}

func TestResultsAfterUnmountAreDiscarded(t *testing.T) {
	release := make(chan struct{})
	p := New(
		&fakeEpisodes{err: errors.New("boom"), release: release},
		&fakeVideos{content: &models.VideoContent{Success: true, Videos: makeVideos(1)}, release: release},
		test.NewLogger())
	require.NoError(t, p.Mount(context.Background()))

	p.Unmount()
	close(release)

	assert.ErrorIs(t, p.Wait(context.Background()), ErrUnmounted)
	assert.Never(t, func() bool {
		s := p.Snapshot()
		return !s.Loading || s.HasError() || len(s.Videos) > 0
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestUnmountIsIdempotent(t *testing.T) {
	p := New(&fakeEpisodes{}, &fakeVideos{}, test.NewLogger())
	mountAndWait(t, p)
	p.Unmount()
	assert.NotPanics(t, p.Unmount)
}

func TestMountIgnoresCallerCancellation(t *testing.T) {
	eps := &fakeEpisodes{episodes: makeEpisodes(2), release: make(chan struct{})}
	p := New(eps, &fakeVideos{content: &models.VideoContent{Success: true}}, test.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Mount(ctx))
	cancel()
	close(eps.release)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	require.NoError(t, p.Wait(waitCtx))
	assert.Len(t, p.Snapshot().Episodes, 2)
}

func TestPanickingCollaboratorStillSettles(t *testing.T) {
	p := New(&fakeEpisodes{panicMsg: "nil map"}, &fakeVideos{content: &models.VideoContent{Success: true}}, test.NewLogger())
	s := mountAndWait(t, p)
	assert.False(t, s.Loading)
	assert.Equal(t, EpisodesErrorMessage, s.Error)
}

func TestWaitHonoursContext(t *testing.T) {
	eps := &fakeEpisodes{release: make(chan struct{})}
	defer close(eps.release)
	p := New(eps, &fakeVideos{}, test.NewLogger())
	require.NoError(t, p.Mount(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)
	assert.True(t, p.Snapshot().Loading)
}

func TestDiscardedResultsAreCountedForBothSources(t *testing.T) {
	discarded := func(source string) float64 {
		return testutil.ToFloat64(metrics.Fetches.WithLabelValues(source, metrics.OutcomeDiscarded))
	}
	episodesBefore := discarded(metrics.SourceEpisodes)
	videosBefore := discarded(metrics.SourceVideos)

	release := make(chan struct{})
	vids := &fakeVideos{content: &models.VideoContent{Success: false}, release: release, called: make(chan struct{})}
	p := New(&fakeEpisodes{episodes: makeEpisodes(1), release: release}, vids, test.NewLogger())
	require.NoError(t, p.Mount(context.Background()))
	<-vids.called

	p.Unmount()
	close(release)

	assert.Eventually(t, func() bool {
		return discarded(metrics.SourceEpisodes) >= episodesBefore+1 &&
			discarded(metrics.SourceVideos) >= videosBefore+1
	}, time.Second, 5*time.Millisecond)
}
