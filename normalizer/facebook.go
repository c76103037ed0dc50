package normalizer

import "post-archiver/domain/model"

// ParseFacebookPost maps a raw Facebook dataset record to PostData.
// Attachment extraction tries the attachments array first, then the
// legacy post_external_* fields, then a single header image.
func ParseFacebookPost(raw map[string]any, url string) model.PostData {
	post := model.PostData{
		Platform: model.PlatformFacebook,
		ID:       idFrom(raw, url, "post_id", "id"),
		URL:      firstString(raw, "url", "post_url"),
		Author: model.Author{
			Name:     firstString(raw, "user_username_raw", "user_username", "page_name", "author"),
			URL:      firstString(raw, "user_url", "page_url", "profile_url"),
			Avatar:   firstString(raw, "avatar_image_url", "page_logo", "profile_image"),
			Handle:   firstString(raw, "profile_handle", "page_handle"),
			Verified: firstBool(raw, "page_is_verified", "is_verified"),
		},
		Content: model.Content{
			Text: firstString(raw, "content", "message", "post_text", "text"),
		},
		Metadata: model.Metadata{
			Likes:     firstNumber(raw, "likes", "num_likes", "reactions_count"),
			Comments:  firstNumber(raw, "num_comments", "comments_count", "comments"),
			Shares:    firstNumber(raw, "num_shares", "shares_count", "shares"),
			Views:     firstNumber(raw, "video_view_count", "views", "play_count"),
			Timestamp: timestamp(raw, "date_posted", "timestamp", "created_time"),
		},
		Hashtags: stringList(raw, "hashtags"),
		Raw:      raw,
	}
	if post.URL == "" {
		post.URL = url
	}
	if post.Author.Name == "" {
		post.Author.Name = unknownAuthor
	}

	post.Media = facebookMedia(raw)
	post.Comments = parseComments(raw, "comments", "latest_comments")
	return post
}

func facebookMedia(raw map[string]any) []model.Media {
	var media []model.Media
	for _, item := range list(raw, "attachments", "media") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := model.Media{
			Type:      mediaType(firstString(m, "type", "attachment_type", "__typename")),
			URL:       firstString(m, "video_url", "url", "attachment_url", "image_url"),
			Thumbnail: firstString(m, "thumbnail", "thumbnail_url", "preview_image_url"),
			Width:     int(firstNumber(m, "width")),
			Height:    int(firstNumber(m, "height")),
		}
		if entry.URL != "" {
			media = append(media, entry)
		}
	}
	if len(media) > 0 {
		return media
	}
	// Legacy flat fields, then a lone header image.
	if u := firstString(raw, "post_external_image", "post_image", "header_image"); u != "" {
		media = append(media, model.Media{Type: "image", URL: u})
	}
	if u := firstString(raw, "video_url", "post_video"); u != "" {
		media = append(media, model.Media{Type: "video", URL: u, Thumbnail: firstString(raw, "video_thumbnail")})
	}
	return media
}
