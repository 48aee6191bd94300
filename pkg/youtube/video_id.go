// Package youtube extracts video ids from the URL shapes YouTube hands out.
package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidVideo = errors.New("not a youtube video url or id")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var pathPrefixes = []string{"/embed/", "/shorts/", "/live/", "/v/"}

// ParseVideoID accepts a bare 11 character id or a watch, youtu.be, embed, shorts or live URL.
func ParseVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if IsVideoID(input) {
		return input, nil
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", ErrInvalidVideo
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if u.Path == "/watch" {
			candidate = u.Query().Get("v")
			break
		}
		for _, prefix := range pathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				candidate = strings.SplitN(strings.TrimPrefix(u.Path, prefix), "/", 2)[0]
				break
			}
		}
	default:
		return "", ErrInvalidVideo
	}

	if !IsVideoID(candidate) {
		return "", ErrInvalidVideo
	}
	return candidate, nil
}

func IsVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// ThumbnailURL is the high quality still every public video has.
func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

// WatchURL links to the video, optionally starting at seconds.
func WatchURL(videoID string, seconds int) string {
	u := "https://www.youtube.com/watch?v=" + videoID
	if seconds > 0 {
		u += "&t=" + strconv.Itoa(seconds) + "s"
	}
	return u
}
