package media

import (
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var urlPattern = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|shorts/|.+\?v=)?([^&=%\?]{11})`)

// ValidateURL reports ErrInvalidURL unless raw points at a video on
// youtube.com, youtu.be or youtube-nocookie.com.
func ValidateURL(raw string) error {
	if !urlPattern.MatchString(strings.TrimSpace(raw)) {
		return ErrInvalidURL
	}
	return nil
}

// ExtractID returns the 11 character video id of a watch, short or embed
// URL. A bare id is returned unchanged.
func ExtractID(raw string) (string, bool) {
	id, err := youtube.ExtractVideoID(strings.TrimSpace(raw))
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// WatchURL is the canonical watch page of id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
