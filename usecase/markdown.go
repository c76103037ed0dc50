package usecase

import (
	"fmt"
	"strings"

	"post-archiver/domain/model"
)

// RenderMarkdown produces the vault document for an archived post:
// frontmatter, body text, media links, and the optional analysis.
func RenderMarkdown(post *model.PostData, analysis *model.Analysis) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "platform: %s\n", post.Platform)
	fmt.Fprintf(&b, "id: %s\n", post.ID)
	fmt.Fprintf(&b, "url: %s\n", post.URL)
	fmt.Fprintf(&b, "author: %q\n", post.Author.Name)
	if post.Metadata.Timestamp != "" {
		fmt.Fprintf(&b, "posted: %s\n", post.Metadata.Timestamp)
	}
	if len(post.Hashtags) > 0 {
		fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(post.Hashtags, ", "))
	}
	b.WriteString("---\n\n")

	if post.Content.Text != "" {
		b.WriteString(post.Content.Text)
		b.WriteString("\n")
	}

	if len(post.Media) > 0 {
		b.WriteString("\n## Media\n\n")
		for _, m := range post.Media {
			fmt.Fprintf(&b, "- [%s](%s)\n", m.Type, m.URL)
		}
	}

	if post.Metadata.Likes > 0 || post.Metadata.Comments > 0 || post.Metadata.Shares > 0 || post.Metadata.Views > 0 {
		b.WriteString("\n## Engagement\n\n")
		fmt.Fprintf(&b, "likes: %d · comments: %d · shares: %d · views: %d\n",
			post.Metadata.Likes, post.Metadata.Comments, post.Metadata.Shares, post.Metadata.Views)
	}

	if analysis != nil {
		b.WriteString("\n## Analysis\n\n")
		if analysis.Summary != "" {
			b.WriteString(analysis.Summary)
			b.WriteString("\n")
		}
		if analysis.Sentiment != "" {
			fmt.Fprintf(&b, "\nSentiment: %s\n", analysis.Sentiment)
		}
		if len(analysis.Topics) > 0 {
			fmt.Fprintf(&b, "Topics: %s\n", strings.Join(analysis.Topics, ", "))
		}
	}

	return b.String()
}
