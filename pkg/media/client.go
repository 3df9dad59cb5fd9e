package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kkdai/youtube/v2"
)

// Source is the subset of *youtube.Client used here.
type Source interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

const (
	defaultAttempts = 3
	defaultBackoff  = time.Second
)

type Option func(*Client)

// WithSource replaces the youtube client.
func WithSource(source Source) Option {
	return func(c *Client) {
		if source != nil {
			c.source = source
		}
	}
}

// WithRetry sets the number of metadata attempts and the base delay. The
// n-th retry waits n*backoff.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client fetches video metadata and streams.
type Client struct {
	source   Source
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewClient(options ...Option) *Client {
	c := &Client{
		source:   &youtube.Client{},
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		logger:   slog.Default(),
		sleep:    sleepContext,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Video validates rawURL and fetches its metadata, retrying failed fetches.
func (c *Client) Video(ctx context.Context, rawURL string) (*youtube.Video, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	id, ok := ExtractID(rawURL)
	if !ok {
		return nil, ErrInvalidURL
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		video, err := c.source.GetVideoContext(ctx, WatchURL(id))
		if err == nil {
			return video, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == c.attempts {
			break
		}
		delay := time.Duration(attempt) * c.backoff
		c.logger.DebugContext(ctx, "media: metadata fetch failed, retrying",
			slog.String("video_id", id),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("media: fetch %s: %w", id, translateFetchErr(lastErr))
}

// AudioStreams fetches rawURL and lists its audio-only streams.
func (c *Client) AudioStreams(ctx context.Context, rawURL string) ([]Stream, error) {
	video, err := c.Video(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return AudioStreams(video)
}

// Formats fetches rawURL and lists its downloadable formats.
func (c *Client) Formats(ctx context.Context, rawURL string) ([]Format, error) {
	video, err := c.Video(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return Formats(video)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
