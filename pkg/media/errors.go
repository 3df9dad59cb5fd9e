package media

import (
	"errors"
	"fmt"

	"github.com/kkdai/youtube/v2"
)

var (
	ErrInvalidURL     = errors.New("media: invalid YouTube URL")
	ErrNoAudioStreams = errors.New("media: no audio streams available for this video")
	ErrFormatNotFound = errors.New("media: selected stream is not available")
	// ErrBadRequest replaces an HTTP 400 from the video host.
	ErrBadRequest = errors.New("HTTP Error 400: Bad Request. This could be due to:\n" +
		"- YouTube API changes\n" +
		"- Network connectivity issues\n" +
		"- Invalid or restricted video URL\n\n" +
		"Try again later or update the application")

	errNoVideo = errors.New("media: no video metadata")
)

func translateFetchErr(err error) error {
	if err == nil {
		return nil
	}
	var status youtube.ErrUnexpectedStatusCode
	if errors.As(err, &status) && int(status) == 400 {
		return fmt.Errorf("%w (%v)", ErrBadRequest, err)
	}
	return err
}
