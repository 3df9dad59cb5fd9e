// Package ytdata reads video metadata from the YouTube Data API v3.
package ytdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

var ErrVideoNotFound = errors.New("video not found or is private")

// APIError is an error body returned by the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %s", http.StatusText(e.Status))
	}
	return "API error: " + e.Message
}

// Video is the metadata summary of one video. Views and Likes are "N/A"
// when the owner hides them.
type Video struct {
	ID        string
	Title     string
	Channel   string
	Published string
	Views     string
	Likes     string
	Duration  string
	URL       string
}

// Summary renders the metadata one field per line.
func (v Video) Summary() string {
	lines := []string{
		"Title: " + v.Title,
		"Channel: " + v.Channel,
		"Published: " + v.Published,
		"Views: " + formatCount(v.Views),
		"Likes: " + formatCount(v.Likes),
		"Duration: " + v.Duration,
		"Video ID: " + v.ID,
	}
	return strings.Join(lines, "\n")
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// Client calls the API with an already authorised HTTP client, typically
// one returned by oauthstore.HTTPClient.
type Client struct {
	http    *http.Client
	baseURL string
}

func New(httpClient *http.Client, options ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{http: httpClient, baseURL: DefaultBaseURL}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type listResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Video fetches snippet, content details and statistics for id.
func (c *Client) Video(ctx context.Context, id string) (Video, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Video{}, errors.New("ytdata: video id is required")
	}

	query := url.Values{}
	query.Set("part", "snippet,contentDetails,statistics")
	query.Set("id", id)
	endpoint := c.baseURL + "/videos?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Video{}, fmt.Errorf("ytdata: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return Video{}, fmt.Errorf("ytdata: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Video{}, fmt.Errorf("ytdata: read response: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode}
		var payload errorResponse
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Error.Message
		}
		return Video{}, apiErr
	}

	var payload listResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Video{}, fmt.Errorf("ytdata: decode response: %w", err)
	}
	if len(payload.Items) == 0 {
		return Video{}, ErrVideoNotFound
	}

	item := payload.Items[0]
	return Video{
		ID:        item.ID,
		Title:     item.Snippet.Title,
		Channel:   item.Snippet.ChannelTitle,
		Published: item.Snippet.PublishedAt,
		Views:     orNA(item.Statistics.ViewCount),
		Likes:     orNA(item.Statistics.LikeCount),
		Duration:  item.ContentDetails.Duration,
		URL:       "https://www.youtube.com/watch?v=" + id,
	}, nil
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

func formatCount(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	return humanize.Comma(n)
}
