package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"
)

const progressBuffer = 8

// Progress is one download event. The last event on a channel has Done set
// or Err non-nil; the channel is closed right after it.
type Progress struct {
	Downloaded int64
	Total      int64
	Done       bool
	Path       string
	Err        error
}

// Percent is Downloaded as a share of Total, 0 when Total is unknown.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	pct := int(p.Downloaded * 100 / p.Total)
	if pct > 100 {
		return 100
	}
	return pct
}

// Terminal reports whether p is the last event.
func (p Progress) Terminal() bool { return p.Done || p.Err != nil }

// DefaultDestDir is ~/Downloads, or the working directory when the home
// directory is unknown.
func DefaultDestDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// Download streams handle into destDir as "<title>.<ext>". Callers must
// drain the channel until it is closed; cancelling ctx aborts the transfer
// and ends the channel with ctx.Err().
func (c *Client) Download(ctx context.Context, handle Handle, destDir string) <-chan Progress {
	events := make(chan Progress, progressBuffer)
	go func() {
		defer close(events)
		path, err := c.download(ctx, handle, destDir, events)
		if err != nil {
			events <- Progress{Err: err}
			return
		}
		info, statErr := os.Stat(path)
		final := Progress{Done: true, Path: path}
		if statErr == nil {
			final.Downloaded = info.Size()
			final.Total = info.Size()
		}
		events <- final
	}()
	return events
}

func (c *Client) download(ctx context.Context, handle Handle, destDir string, events chan<- Progress) (string, error) {
	video := handle.video
	if video == nil {
		if handle.VideoID == "" {
			return "", ErrFormatNotFound
		}
		fetched, err := c.Video(ctx, WatchURL(handle.VideoID))
		if err != nil {
			return "", err
		}
		video = fetched
	}
	format := video.Formats.Itag(handle.Itag)
	if len(format) == 0 {
		return "", ErrFormatNotFound
	}

	if strings.TrimSpace(destDir) == "" {
		destDir = DefaultDestDir()
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create %s: %w", destDir, err)
	}

	stream, total, err := c.source.GetStreamContext(ctx, video, &format[0])
	if err != nil {
		return "", fmt.Errorf("media: open stream: %w", translateFetchErr(err))
	}
	defer func() { _ = stream.Close() }()

	path := filepath.Join(destDir, FileName(video, &format[0]))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("media: create %s: %w", path, err)
	}

	counter := &progressWriter{ctx: ctx, total: total, events: events}
	_, copyErr := io.Copy(io.MultiWriter(file, counter), contextReader{ctx: ctx, r: stream})
	closeErr := file.Close()
	if copyErr != nil {
		_ = os.Remove(path)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("media: download: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("media: close %s: %w", path, closeErr)
	}

	c.logger.DebugContext(ctx, "media: download finished",
		"video_id", video.ID,
		"itag", format[0].ItagNo,
		"path", path,
		"bytes", counter.written,
	)
	return path, nil
}

// FileName builds "<title>.<ext>" with path separators and reserved
// characters removed. The video id stands in for an empty title.
func FileName(video *youtube.Video, format *youtube.Format) string {
	name := ""
	if video != nil {
		name = sanitizeFileName(video.Title)
		if name == "" {
			name = video.ID
		}
	}
	if name == "" {
		name = "download"
	}
	ext := "bin"
	if format != nil {
		if e := extension(format.MimeType); e != "?" {
			ext = e
		}
	}
	return name + "." + ext
}

func sanitizeFileName(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, title)
	return strings.Trim(strings.TrimSpace(mapped), ".")
}

type progressWriter struct {
	ctx     context.Context
	total   int64
	written int64
	events  chan<- Progress
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	select {
	case w.events <- Progress{Downloaded: w.written, Total: w.total}:
	case <-w.ctx.Done():
		return 0, w.ctx.Err()
	}
	return len(p), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
