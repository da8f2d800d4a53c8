package page

import (
	"fmt"
	"time"

	"content-hub/internal/models"
)

// Options carries render settings that do not live in the page state.
type Options struct {
	Location       *time.Location
	PlayerEmbedURL string
}

// View is the render tree of the page. Exactly one of Loading, Podcast or
// Video describes the main content; Error is rendered in addition.
type View struct {
	Loading        bool         `json:"loading"`
	LoadingMessage string       `json:"loading_message,omitempty"`
	ActiveTab      Tab          `json:"active_tab"`
	Tabs           []TabView    `json:"tabs,omitempty"`
	Podcast        *PodcastView `json:"podcast,omitempty"`
	Video          *VideoView   `json:"video,omitempty"`
	Error          *ErrorView   `json:"error,omitempty"`
}

type TabView struct {
	Tab    Tab    `json:"tab"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// PodcastView always carries the embedded player. Episodes is empty when the
// list section is omitted.
type PodcastView struct {
	PlayerEmbedURL string        `json:"player_embed_url"`
	Episodes       []EpisodeCard `json:"episodes,omitempty"`
}

// ShowEpisodeList reports whether the "Recent Episodes" section is rendered.
func (v PodcastView) ShowEpisodeList() bool {
	return len(v.Episodes) > 0
}

type EpisodeCard struct {
	ID           string        `json:"id"`
	EpisodeLabel string        `json:"episode_label"`
	SeasonLabel  string        `json:"season_label,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	GuestName    string        `json:"guest_name,omitempty"`
	Duration     string        `json:"duration"`
	PublishedOn  string        `json:"published_on"`
	ImageURL     string        `json:"image_url,omitempty"`
	Feedback     FeedbackProps `json:"feedback"`
}

// VideoView holds either cards or the empty state, never both.
type VideoView struct {
	Cards      []VideoCard `json:"cards,omitempty"`
	EmptyState *EmptyState `json:"empty_state,omitempty"`
}

type VideoCard struct {
	Player      PlayerProps    `json:"player"`
	TypeLabel   string         `json:"type_label"`
	Featured    bool           `json:"featured"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Views       string         `json:"views"`
	Feedback    *FeedbackProps `json:"feedback,omitempty"`
}

// PlayerProps feeds the client-side video player.
type PlayerProps struct {
	VideoID           string `json:"video_id"`
	Title             string `json:"title"`
	VideoURL          string `json:"video_url"`
	ThumbnailURL      string `json:"thumbnail_url"`
	LeadMagnetEnabled bool   `json:"lead_magnet_enabled"`
	LeadMagnetTitle   string `json:"lead_magnet_title,omitempty"`
}

// FeedbackProps feeds the client-side feedback widget.
type FeedbackProps struct {
	EpisodeID    string `json:"episode_id"`
	EpisodeTitle string `json:"episode_title"`
	Compact      bool   `json:"compact"`
}

type EmptyState struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type ErrorView struct {
	Message     string `json:"message"`
	ActionLabel string `json:"action_label"`
}

const (
	loadingMessage    = "Loading content..."
	videoEmptyTitle   = "Video Content Coming Soon"
	videoEmptyMessage = "We're working on bringing you exclusive video content. Check back soon!"
	tryAgainLabel     = "Try Again"
)

// Select maps a state snapshot to the view to render. It has no side effects.
func Select(s State, opts Options) View {
	if s.Loading {
		return View{Loading: true, LoadingMessage: loadingMessage, ActiveTab: s.ActiveTab}
	}

	v := View{
		ActiveTab: s.ActiveTab,
		Tabs: []TabView{
			{Tab: TabPodcast, Label: "Podcast Episodes", Active: s.ActiveTab == TabPodcast},
			{Tab: TabVideo, Label: "Video Content", Active: s.ActiveTab == TabVideo},
		},
	}

	switch s.ActiveTab {
	case TabVideo:
		v.Video = selectVideo(s.Videos)
	default:
		v.Podcast = selectPodcast(s.Episodes, opts)
	}

	if s.HasError() {
		v.Error = &ErrorView{Message: s.Error, ActionLabel: tryAgainLabel}
	}
	return v
}

func selectPodcast(episodes []models.Episode, opts Options) *PodcastView {
	pv := &PodcastView{PlayerEmbedURL: opts.PlayerEmbedURL}
	for _, ep := range episodes {
		pv.Episodes = append(pv.Episodes, EpisodeCard{
			ID:           ep.ID,
			EpisodeLabel: fmt.Sprintf("Episode %d", ep.EpisodeNumber),
			SeasonLabel:  SeasonLabel(ep.SeasonNumber),
			Title:        ep.Title,
			Description:  deref(ep.Description),
			GuestName:    deref(ep.GuestName),
			Duration:     fmt.Sprintf("%d min", ep.DurationMinutes),
			PublishedOn:  FormatDate(ep.PublishedAt, opts.Location),
			ImageURL:     deref(ep.FeaturedImageURL),
			Feedback: FeedbackProps{
				EpisodeID:    EpisodeFeedbackID(ep.EpisodeNumber),
				EpisodeTitle: ep.Title,
				Compact:      true,
			},
		})
	}
	return pv
}

func selectVideo(list []models.Video) *VideoView {
	if len(list) == 0 {
		return &VideoView{EmptyState: &EmptyState{Title: videoEmptyTitle, Message: videoEmptyMessage}}
	}

	vv := &VideoView{}
	for _, vid := range list {
		card := VideoCard{
			Player: PlayerProps{
				VideoID:           vid.VideoID,
				Title:             vid.Title,
				VideoURL:          vid.VideoURL,
				ThumbnailURL:      vid.ThumbnailURL,
				LeadMagnetEnabled: vid.LeadMagnetEnabled,
				LeadMagnetTitle:   deref(vid.LeadMagnetTitle),
			},
			TypeLabel:   VideoTypeLabel(vid.VideoType),
			Featured:    vid.Featured,
			Title:       vid.Title,
			Description: deref(vid.Description),
			Views:       fmt.Sprintf("%d views", vid.ViewCount),
		}
		if id := deref(vid.EpisodeID); id != "" {
			card.Feedback = &FeedbackProps{EpisodeID: id, EpisodeTitle: vid.Title, Compact: true}
		}
		vv.Cards = append(vv.Cards, card)
	}
	return vv
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
