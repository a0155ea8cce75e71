package utils

import (
	"net/url"
	"strings"
)

// ConvertToEmbedURL rewrites a youtube/vimeo watch URL into its embeddable
// player form. Unknown hosts pass through unchanged.
func ConvertToEmbedURL(raw string) string {
	if strings.Contains(raw, "youtube.com/watch") {
		u, err := url.Parse(raw)
		if err != nil {
			return raw
		}
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
		return raw
	}
	if strings.Contains(raw, "youtu.be/") {
		id := strings.SplitN(raw, "youtu.be/", 2)[1]
		id = strings.SplitN(id, "?", 2)[0]
		return "https://www.youtube.com/embed/" + id
	}
	if strings.Contains(raw, "vimeo.com/") {
		id := strings.SplitN(raw, "vimeo.com/", 2)[1]
		id = strings.SplitN(id, "?", 2)[0]
		return "https://player.vimeo.com/video/" + id
	}
	return raw
}
