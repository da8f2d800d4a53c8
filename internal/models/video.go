package models

// Video is a curated video record served by the video content service.
type Video struct {
	VideoID           string  `json:"video_id"`
	Title             string  `json:"title"`
	Description       *string `json:"description,omitempty"`
	VideoURL          string  `json:"video_url"`
	ThumbnailURL      string  `json:"thumbnail_url"`
	VideoType         string  `json:"video_type"`
	Featured          bool    `json:"featured"`
	ViewCount         int     `json:"view_count"`
	LeadMagnetEnabled bool    `json:"lead_magnet_enabled"`
	LeadMagnetTitle   *string `json:"lead_magnet_title,omitempty"`
	EpisodeID         *string `json:"episode_id,omitempty"`
}

// VideoContent is the envelope returned by the video content service.
type VideoContent struct {
	Success bool    `json:"success"`
	Videos  []Video `json:"videos"`
}
