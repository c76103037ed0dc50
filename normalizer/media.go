package normalizer

import (
	"strings"

	"post-archiver/domain/model"
)

// mediaType folds the provider's attachment-type spellings into the
// canonical closed set: image, video, audio, document.
func mediaType(t string) string {
	switch strings.ToLower(t) {
	case "video", "video_inline", "native_video", "gif":
		return "video"
	case "audio", "music":
		return "audio"
	case "document", "file", "pdf":
		return "document"
	default:
		return "image"
	}
}

// parseComments extracts the comment tree from the first populated key.
// Comment shapes vary more than any other structure upstream; missing
// fields collapse to zero values, and replies nest recursively.
func parseComments(raw map[string]any, keys ...string) []model.Comment {
	var out []model.Comment
	for _, item := range list(raw, keys...) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, parseComment(m))
	}
	return out
}

func parseComment(m map[string]any) model.Comment {
	c := model.Comment{
		Author: model.Author{
			Name:   firstString(m, "user_commenting", "commenter_name", "author", "username", "name"),
			URL:    firstString(m, "user_url", "commenter_url", "author_url"),
			Avatar: firstString(m, "user_avatar", "avatar", "profile_image"),
		},
		Text:  firstString(m, "comment", "comment_text", "text", "content"),
		Likes: firstNumber(m, "likes", "like_count", "num_likes", "digg_count"),
	}
	if c.Author.Name == "" {
		c.Author.Name = unknownAuthor
	}
	for _, reply := range list(m, "replies", "comment_replies") {
		rm, ok := reply.(map[string]any)
		if !ok {
			continue
		}
		c.Replies = append(c.Replies, parseComment(rm))
	}
	return c
}
