package normalizer

import "post-archiver/domain/model"

// ParseThreadsPost maps a raw Threads dataset record to PostData.
func ParseThreadsPost(raw map[string]any, url string) model.PostData {
	post := model.PostData{
		Platform: model.PlatformThreads,
		ID:       idFrom(raw, url, "post_id", "pk", "code", "id"),
		URL:      firstString(raw, "url", "post_url"),
		Author: model.Author{
			Name:     firstString(raw, "full_name", "user_name", "author"),
			URL:      firstString(raw, "profile_url", "user_url"),
			Avatar:   firstString(raw, "profile_pic_url", "profile_image", "avatar"),
			Handle:   firstString(raw, "username", "user_posted", "handle"),
			Verified: firstBool(raw, "is_verified", "verified"),
		},
		Content: model.Content{
			Text: firstString(raw, "content", "caption_text", "text", "description"),
		},
		Metadata: model.Metadata{
			Likes:     firstNumber(raw, "likes", "like_count"),
			Comments:  firstNumber(raw, "replies", "reply_count", "num_comments"),
			Shares:    firstNumber(raw, "reposts", "repost_count", "reshare_count"),
			Views:     firstNumber(raw, "views", "view_count"),
			Timestamp: timestamp(raw, "date_posted", "taken_at", "published_on"),
		},
		Hashtags: stringList(raw, "hashtags", "tags"),
		Raw:      raw,
	}
	if post.URL == "" {
		post.URL = url
	}
	if post.Author.Name == "" {
		post.Author.Name = post.Author.Handle
	}
	if post.Author.Name == "" {
		post.Author.Name = unknownAuthor
	}

	post.Media = threadsMedia(raw)
	post.Comments = parseComments(raw, "top_comments", "comments")

	if quoted := subMap(raw, "quoted_post"); quoted != nil {
		q := ParseThreadsPost(quoted, firstString(quoted, "url"))
		post.Quoted = &q
	}
	if parent := subMap(raw, "reply_to", "replied_to_post"); parent != nil {
		p := ParseThreadsPost(parent, firstString(parent, "url"))
		post.ReplyTo = &p
	}
	return post
}

func threadsMedia(raw map[string]any) []model.Media {
	var media []model.Media
	for _, item := range list(raw, "images", "photos", "carousel_media") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "image", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "image_url", "display_url"); u != "" {
				media = append(media, model.Media{
					Type:   mediaType(firstString(v, "type", "media_type")),
					URL:    u,
					Width:  int(firstNumber(v, "width")),
					Height: int(firstNumber(v, "height")),
				})
			}
		}
	}
	for _, item := range list(raw, "videos") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "video", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "video_url"); u != "" {
				media = append(media, model.Media{Type: "video", URL: u, Thumbnail: firstString(v, "thumbnail")})
			}
		}
	}
	if len(media) == 0 {
		if u := firstString(raw, "video_url"); u != "" {
			media = append(media, model.Media{Type: "video", URL: u})
		} else if u := firstString(raw, "image_url", "display_url"); u != "" {
			media = append(media, model.Media{Type: "image", URL: u})
		}
	}
	return media
}
