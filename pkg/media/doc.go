// Package media validates video URLs, lists the audio streams and formats
// of a video and downloads a chosen one while reporting progress on a
// channel. Extraction and transfer are delegated to
// github.com/kkdai/youtube/v2.
package media
