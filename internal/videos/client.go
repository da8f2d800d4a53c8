package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"content-hub/internal/models"
)

// Filter narrows the videos returned by the service.
type Filter struct {
	Featured bool
}

// Client talks to the video content service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a video content client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("video service URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid video service URL: %w", err)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// GetVideoContent fetches the curated video list. A service-level failure is
// reported through VideoContent.Success, transport and decoding failures as
// errors.
func (c *Client) GetVideoContent(ctx context.Context, filter Filter) (*models.VideoContent, error) {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid video service URL: %w", err)
	}
	apiURL = apiURL.JoinPath("videos")

	params := url.Values{}
	if filter.Featured {
		params.Set("featured", strconv.FormatBool(true))
	}
	apiURL.RawQuery = params.Encode()

	c.logger.WithFields(logrus.Fields{
		"url":      apiURL.String(),
		"featured": filter.Featured,
	}).Debug("Requesting video content")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "content-hub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("video service returned status %d: %s", resp.StatusCode, string(body))
	}

	var content models.VideoContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fmt.Errorf("failed to decode video content: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"success": content.Success,
		"count":   len(content.Videos),
	}).Debug("Video content received")

	return &content, nil
}
