package video

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var ErrUnsupportedLink = errors.New("unsupported video link")

var (
	videoIDRegex   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	hmsOffsetRegex = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
)

// Reference is a parsed YouTube link.
type Reference struct {
	ID           string `json:"id"`
	StartSeconds int    `json:"start_seconds,omitempty"`
}

// EmbedURL renders the iframe source for the reference.
func (r Reference) EmbedURL() string {
	if r.StartSeconds > 0 {
		return fmt.Sprintf("https://www.youtube.com/embed/%s?start=%d", r.ID, r.StartSeconds)
	}
	return "https://www.youtube.com/embed/" + r.ID
}

// WatchURL renders the canonical watch link.
func (r Reference) WatchURL() string {
	if r.StartSeconds > 0 {
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", r.ID, r.StartSeconds)
	}
	return "https://www.youtube.com/watch?v=" + r.ID
}

// Parse extracts the video id and optional start offset from a YouTube link.
// Recognized: youtu.be/<id>, youtube.com/watch?v=<id>, /embed/<id>, /shorts/<id>
// and a bare 11 character id.
func Parse(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, ErrUnsupportedLink
	}
	if videoIDRegex.MatchString(raw) {
		return Reference{ID: raw}, nil
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return Reference{}, fmt.Errorf("%w: %v", ErrUnsupportedLink, err)
	}

	id := extractID(u)
	if !videoIDRegex.MatchString(id) {
		return Reference{}, fmt.Errorf("%w: %s", ErrUnsupportedLink, raw)
	}

	ref := Reference{ID: id}
	ref.StartSeconds = startOffset(u)
	return ref, nil
}

func extractID(u *url.URL) string {
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case host == "youtu.be":
		return segments[0]
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com") || host == "youtube-nocookie.com":
		if len(segments) == 1 && segments[0] == "watch" {
			return u.Query().Get("v")
		}
		if len(segments) >= 2 {
			switch segments[0] {
			case "embed", "shorts":
				return segments[1]
			}
		}
	}
	return ""
}

func startOffset(u *url.URL) int {
	q := u.Query()
	for _, key := range []string{"t", "start"} {
		if v := q.Get(key); v != "" {
			if secs, ok := ParseOffset(v); ok {
				return secs
			}
		}
	}
	if frag := strings.TrimPrefix(u.Fragment, "t="); frag != u.Fragment {
		if secs, ok := ParseOffset(frag); ok {
			return secs
		}
	}
	return 0
}

// ParseOffset reads "90", "1m30s" or "1h2m3s" into seconds.
func ParseOffset(raw string) (int, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, false
		}
		return secs, true
	}

	m := hmsOffsetRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	total := 0
	for i, mult := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}
