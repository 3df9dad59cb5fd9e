package media

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kkdai/youtube/v2"
)

// Handle identifies one downloadable stream of a video.
type Handle struct {
	VideoID string
	Itag    int

	video *youtube.Video
}

// Stream is an audio-only stream offered for download.
type Stream struct {
	Description string
	Bitrate     int
	MimeType    string
	Handle      Handle
}

// Format is a downloadable format. Quality orders the list; the audio-only
// entry uses -1.
type Format struct {
	ID      string
	Name    string
	Quality int
	Handle  Handle
}

// AudioStreams lists the audio-only streams of video, highest bitrate
// first. Each description reads "<abr> - <mime>".
func AudioStreams(video *youtube.Video) ([]Stream, error) {
	if video == nil {
		return nil, errNoVideo
	}
	audio := audioOnly(video.Formats)
	if len(audio) == 0 {
		return nil, ErrNoAudioStreams
	}
	sort.SliceStable(audio, func(i, j int) bool {
		return bitrate(&audio[i]) > bitrate(&audio[j])
	})

	out := make([]Stream, 0, len(audio))
	for i := range audio {
		f := &audio[i]
		mime := baseMime(f.MimeType)
		if mime == "" {
			mime = "Unknown format"
		}
		out = append(out, Stream{
			Description: abr(f) + " - " + mime,
			Bitrate:     bitrate(f),
			MimeType:    mime,
			Handle:      Handle{VideoID: video.ID, Itag: f.ItagNo, video: video},
		})
	}
	return out, nil
}

// Formats lists the formats carrying both video and audio, best first,
// followed by the single best audio-only format.
func Formats(video *youtube.Video) ([]Format, error) {
	if video == nil {
		return nil, errNoVideo
	}
	var out []Format
	for _, f := range video.Formats.Type("video").WithAudioChannels() {
		out = append(out, Format{
			ID: strconv.Itoa(f.ItagNo),
			Name: fmt.Sprintf("%dx%d - %s (%s, %s)",
				f.Width, f.Height, f.QualityLabel, extension(f.MimeType), size(f.ContentLength)),
			Quality: f.Height,
			Handle:  Handle{VideoID: video.ID, Itag: f.ItagNo, video: video},
		})
	}

	if audio := audioOnly(video.Formats); len(audio) > 0 {
		best := &audio[0]
		for i := range audio {
			if bitrate(&audio[i]) > bitrate(best) {
				best = &audio[i]
			}
		}
		out = append(out, Format{
			ID:      strconv.Itoa(best.ItagNo),
			Name:    fmt.Sprintf("Audio only - %s (%s)", audioNote(best.AudioQuality), extension(best.MimeType)),
			Quality: -1,
			Handle:  Handle{VideoID: video.ID, Itag: best.ItagNo, video: video},
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Quality > out[j].Quality })
	return out, nil
}

func audioOnly(formats youtube.FormatList) youtube.FormatList {
	return formats.Type("audio/")
}

func bitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

func abr(f *youtube.Format) string {
	b := bitrate(f)
	if b <= 0 {
		return "Unknown bitrate"
	}
	return strconv.Itoa(b/1000) + "kbps"
}

func baseMime(mime string) string {
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	return strings.TrimSpace(mime)
}

func extension(mime string) string {
	base := baseMime(mime)
	if idx := strings.LastIndex(base, "/"); idx >= 0 && idx < len(base)-1 {
		return base[idx+1:]
	}
	return "?"
}

func audioNote(quality string) string {
	note := strings.TrimPrefix(quality, "AUDIO_QUALITY_")
	return strings.ToLower(note)
}

func size(n int64) string {
	if n <= 0 {
		return "unknown size"
	}
	return humanize.Bytes(uint64(n))
}
