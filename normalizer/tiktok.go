package normalizer

import "post-archiver/domain/model"

// ParseTikTokPost maps a raw TikTok dataset record to PostData.
func ParseTikTokPost(raw map[string]any, url string) model.PostData {
	post := model.PostData{
		Platform: model.PlatformTikTok,
		ID:       idFrom(raw, url, "post_id", "id", "aweme_id"),
		URL:      firstString(raw, "url", "post_url", "share_url"),
		Author: model.Author{
			Name:     firstString(raw, "profile_nickname", "author_name", "nickname"),
			URL:      firstString(raw, "profile_url", "author_url"),
			Avatar:   firstString(raw, "profile_avatar", "author_avatar", "avatar_thumb"),
			Handle:   firstString(raw, "profile_username", "profile_id", "unique_id"),
			Verified: firstBool(raw, "is_verified", "verified"),
		},
		Content: model.Content{
			Text: firstString(raw, "description", "desc", "title"),
		},
		Metadata: model.Metadata{
			Likes:     firstNumber(raw, "digg_count", "likes", "like_count"),
			Comments:  firstNumber(raw, "comment_count", "comments"),
			Shares:    firstNumber(raw, "share_count", "shares"),
			Views:     firstNumber(raw, "play_count", "views", "video_play_count"),
			Timestamp: timestamp(raw, "create_time", "date_posted", "created_at"),
		},
		Hashtags: stringList(raw, "hashtags", "challenges"),
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

	post.Media = tiktokMedia(raw)
	post.Comments = parseComments(raw, "top_comments", "comments")

	if title := firstString(raw, "music_title", "original_sound"); title != "" {
		post.Music = &model.Music{
			Title:  title,
			Artist: firstString(raw, "music_author", "music_artist"),
			URL:    firstString(raw, "music_url", "music_play_url"),
		}
	} else if music := subMap(raw, "music"); music != nil {
		post.Music = &model.Music{
			Title:  firstString(music, "title", "music_title"),
			Artist: firstString(music, "author", "authorName"),
			URL:    firstString(music, "play_url", "playUrl"),
		}
	}
	return post
}

func tiktokMedia(raw map[string]any) []model.Media {
	var media []model.Media
	if u := firstString(raw, "video_url", "cdn_url", "download_url", "play_url"); u != "" {
		media = append(media, model.Media{
			Type:      "video",
			URL:       u,
			Thumbnail: firstString(raw, "preview_image", "cover", "origin_cover", "thumbnail"),
			Duration:  float64(firstNumber(raw, "video_duration", "duration")),
		})
		return media
	}
	// Photo-mode posts carry an image list instead of a video.
	for _, item := range list(raw, "images", "image_post") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "image", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "display_image"); u != "" {
				media = append(media, model.Media{Type: "image", URL: u})
			}
		}
	}
	if len(media) == 0 {
		if u := firstString(raw, "preview_image", "cover"); u != "" {
			media = append(media, model.Media{Type: "image", URL: u})
		}
	}
	return media
}
