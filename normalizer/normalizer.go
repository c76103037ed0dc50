// Package normalizer converts raw provider dataset records into the
// canonical PostData shape. Every parser is total: missing fields fall
// back through alternate key names and finally to zero values, so a
// sparse record still yields a usable post.
package normalizer

import (
	"post-archiver/domain/model"
)

// ParsePost dispatches a raw record to the parser for its platform.
// Unknown platforms report an UnsupportedPlatformError.
func ParsePost(platform model.Platform, raw map[string]any, url string) (model.PostData, error) {
	switch platform {
	case model.PlatformFacebook:
		return ParseFacebookPost(raw, url), nil
	case model.PlatformLinkedIn:
		return ParseLinkedInPost(raw, url), nil
	case model.PlatformInstagram:
		return ParseInstagramPost(raw, url), nil
	case model.PlatformTikTok:
		return ParseTikTokPost(raw, url), nil
	case model.PlatformX:
		return ParseXPost(raw, url), nil
	case model.PlatformThreads:
		return ParseThreadsPost(raw, url), nil
	default:
		return model.PostData{}, &model.UnsupportedPlatformError{URL: url}
	}
}
