package portfolio

import "strings"

const profileHostMarker = "github.com/"

// ResolveHandle extracts the canonical handle from a bare username or a full
// profile URL. Input without the profile-host marker is returned trimmed.
func ResolveHandle(input string) string {
	handle := strings.TrimSpace(input)
	if idx := strings.Index(handle, profileHostMarker); idx >= 0 {
		handle = handle[idx+len(profileHostMarker):]
		if cut := strings.IndexAny(handle, "/?#"); cut >= 0 {
			handle = handle[:cut]
		}
	}
	return handle
}
