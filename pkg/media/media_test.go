package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kkdai/youtube/v2"
)

const testVideoID = "dQw4w9WgXcQ"

type fakeSource struct {
	mu        sync.Mutex
	video     *youtube.Video
	fetchErrs []error
	fetches   int
	content   string
	streamErr error
}

func (f *fakeSource) GetVideoContext(_ context.Context, url string) (*youtube.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if !strings.HasSuffix(url, testVideoID) {
		return nil, errors.New("unexpected url " + url)
	}
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.video, nil
}

func (f *fakeSource) GetStreamContext(_ context.Context, _ *youtube.Video, _ *youtube.Format) (io.ReadCloser, int64, error) {
	if f.streamErr != nil {
		return nil, 0, f.streamErr
	}
	return io.NopCloser(strings.NewReader(f.content)), int64(len(f.content)), nil
}

func testVideo() *youtube.Video {
	return &youtube.Video{
		ID:    testVideoID,
		Title: "My: Song/Mix",
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Width: 640, Height: 360, QualityLabel: "360p", AudioChannels: 2, ContentLength: 1500000},
			{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Width: 1920, Height: 1080, QualityLabel: "1080p"},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Bitrate: 130000, AudioQuality: "AUDIO_QUALITY_MEDIUM", AudioChannels: 2},
			{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Width: 1280, Height: 720, QualityLabel: "720p", AudioChannels: 2},
			{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Bitrate: 160000, AudioQuality: "AUDIO_QUALITY_MEDIUM", AudioChannels: 2},
			{ItagNo: 249, MimeType: `audio/webm; codecs="opus"`, AverageBitrate: 50000, AudioQuality: "AUDIO_QUALITY_LOW", AudioChannels: 2},
		},
	}
}

func newTestClient(source *fakeSource) (*Client, *[]time.Duration) {
	var slept []time.Duration
	c := NewClient(WithSource(source))
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestValidateAndExtract(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=" + testVideoID,
		"http://youtube.com/watch?v=" + testVideoID + "&t=42",
		"https://youtu.be/" + testVideoID,
		"https://www.youtube-nocookie.com/embed/" + testVideoID,
		"youtube.com/watch?v=" + testVideoID,
	}
	for _, raw := range valid {
		if err := ValidateURL(raw); err != nil {
			t.Fatalf("ValidateURL(%q): %v", raw, err)
		}
		id, ok := ExtractID(raw)
		if !ok || id != testVideoID {
			t.Fatalf("ExtractID(%q) = %q, %v", raw, id, ok)
		}
	}

	for _, raw := range []string{"", "https://vimeo.com/123456789012", "https://example.com/watch?v=" + testVideoID} {
		if err := ValidateURL(raw); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ValidateURL(%q) expected ErrInvalidURL, got %v", raw, err)
		}
	}
	if _, ok := ExtractID("short"); ok {
		t.Fatalf("expected short input to be rejected")
	}
}

func TestAudioStreams_OrderedByBitrate(t *testing.T) {
	c, _ := newTestClient(&fakeSource{video: testVideo()})
	streams, err := c.AudioStreams(context.Background(), WatchURL(testVideoID))
	if err != nil {
		t.Fatalf("audio streams: %v", err)
	}
	var got []string
	for _, s := range streams {
		got = append(got, s.Description)
	}
	want := []string{"160kbps - audio/webm", "130kbps - audio/mp4", "50kbps - audio/webm"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptions (-want +got):\n%s", diff)
	}
	if streams[0].Handle.Itag != 251 || streams[0].Handle.VideoID != testVideoID {
		t.Fatalf("unexpected default handle: %+v", streams[0].Handle)
	}
}

func TestAudioStreams_NoneAvailable(t *testing.T) {
	video := testVideo()
	video.Formats = video.Formats.Type("video")
	if _, err := AudioStreams(video); !errors.Is(err, ErrNoAudioStreams) {
		t.Fatalf("expected ErrNoAudioStreams, got %v", err)
	}
}

func TestFormats_CombinedThenBestAudio(t *testing.T) {
	formats, err := Formats(testVideo())
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	type row struct {
		ID      string
		Name    string
		Quality int
	}
	var got []row
	for _, f := range formats {
		got = append(got, row{f.ID, f.Name, f.Quality})
	}
	want := []row{
		{"22", "1280x720 - 720p (mp4, unknown size)", 720},
		{"18", "640x360 - 360p (mp4, 1.5 MB)", 360},
		{"251", "Audio only - medium (webm)", -1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("formats (-want +got):\n%s", diff)
	}
}

func TestVideo_RetriesWithLinearBackoff(t *testing.T) {
	source := &fakeSource{
		video:     testVideo(),
		fetchErrs: []error{errors.New("timeout"), errors.New("timeout")},
	}
	c, slept := newTestClient(source)

	video, err := c.Video(context.Background(), "https://youtu.be/"+testVideoID)
	if err != nil {
		t.Fatalf("video: %v", err)
	}
	if video.ID != testVideoID || source.fetches != 3 {
		t.Fatalf("unexpected result: id=%s fetches=%d", video.ID, source.fetches)
	}
	if diff := cmp.Diff([]time.Duration{time.Second, 2 * time.Second}, *slept); diff != "" {
		t.Fatalf("backoff (-want +got):\n%s", diff)
	}
}

func TestVideo_BadRequestRewritten(t *testing.T) {
	status := youtube.ErrUnexpectedStatusCode(400)
	source := &fakeSource{fetchErrs: []error{status, status, status}}
	c, _ := newTestClient(source)

	_, err := c.Video(context.Background(), WatchURL(testVideoID))
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if source.fetches != 3 {
		t.Fatalf("expected 3 attempts, got %d", source.fetches)
	}
	if !strings.Contains(err.Error(), "This could be due to") {
		t.Fatalf("expected troubleshooting text, got %q", err.Error())
	}
}

func TestVideo_InvalidURL(t *testing.T) {
	source := &fakeSource{}
	c, _ := newTestClient(source)
	if _, err := c.Video(context.Background(), "https://example.com/x"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if source.fetches != 0 {
		t.Fatalf("expected no fetch for invalid url")
	}
}

func drain(events <-chan Progress) []Progress {
	var out []Progress
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestDownload_ReportsProgressAndWritesFile(t *testing.T) {
	source := &fakeSource{video: testVideo(), content: strings.Repeat("x", 4096)}
	c, _ := newTestClient(source)
	streams, err := c.AudioStreams(context.Background(), WatchURL(testVideoID))
	if err != nil {
		t.Fatalf("audio streams: %v", err)
	}

	dir := t.TempDir()
	events := drain(c.Download(context.Background(), streams[0].Handle, dir))
	if len(events) < 2 {
		t.Fatalf("expected progress and terminal events, got %+v", events)
	}
	last := events[len(events)-1]
	if !last.Done || last.Err != nil {
		t.Fatalf("expected successful terminal event, got %+v", last)
	}
	if want := filepath.Join(dir, "My SongMix.webm"); last.Path != want {
		t.Fatalf("expected path %q, got %q", want, last.Path)
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Terminal() || ev.Total != 4096 {
			t.Fatalf("unexpected intermediate event: %+v", ev)
		}
	}
	if events[len(events)-2].Percent() != 100 {
		t.Fatalf("expected last progress at 100%%, got %d", events[len(events)-2].Percent())
	}
	data, err := os.ReadFile(last.Path)
	if err != nil || len(data) != 4096 {
		t.Fatalf("unexpected file: %d bytes, %v", len(data), err)
	}
}

func TestDownload_RefetchesByID(t *testing.T) {
	source := &fakeSource{video: testVideo(), content: "abc"}
	c, _ := newTestClient(source)

	events := drain(c.Download(context.Background(), Handle{VideoID: testVideoID, Itag: 18}, t.TempDir()))
	last := events[len(events)-1]
	if !last.Done || !strings.HasSuffix(last.Path, ".mp4") {
		t.Fatalf("unexpected terminal event: %+v", last)
	}

	events = drain(c.Download(context.Background(), Handle{VideoID: testVideoID, Itag: 999}, t.TempDir()))
	if last := events[len(events)-1]; !errors.Is(last.Err, ErrFormatNotFound) {
		t.Fatalf("expected ErrFormatNotFound, got %+v", last)
	}
}

func TestDownload_CancelledContext(t *testing.T) {
	source := &fakeSource{video: testVideo(), content: "abc"}
	c, _ := newTestClient(source)
	streams, err := AudioStreams(source.video)
	if err != nil {
		t.Fatalf("audio streams: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	events := drain(c.Download(ctx, streams[0].Handle, dir))
	if len(events) != 1 || !errors.Is(events[0].Err, context.Canceled) {
		t.Fatalf("expected single cancelled event, got %+v", events)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected partial file to be removed, found %d entries", len(entries))
	}
}

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		progress Progress
		want     int
	}{
		{Progress{Downloaded: 5}, 0},
		{Progress{Downloaded: 50, Total: 200}, 25},
		{Progress{Downloaded: 300, Total: 200}, 100},
	}
	for _, tc := range cases {
		if got := tc.progress.Percent(); got != tc.want {
			t.Fatalf("Percent(%+v) = %d, want %d", tc.progress, got, tc.want)
		}
	}
}

func TestFileName(t *testing.T) {
	format := &youtube.Format{MimeType: "audio/mp4"}
	if got := FileName(&youtube.Video{ID: testVideoID, Title: " ..."}, format); got != testVideoID+".mp4" {
		t.Fatalf("unexpected fallback name: %q", got)
	}
	if got := FileName(nil, nil); got != "download.bin" {
		t.Fatalf("unexpected default name: %q", got)
	}
}
