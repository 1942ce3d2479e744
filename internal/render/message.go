package render

import (
	"fmt"
	"strings"

	"github.com/diogo/jewelchat/internal/models"
)

// Rendered is a message ready for display
type Rendered struct {
	Text   string
	Links  []string
	Images []string
}

// RenderMessage renders one conversation message.
// Assistant content has its placeholders substituted, its inline elements passed through
// opts.Overrides and is then rendered as markdown. User content is shown verbatim after
// one line per attached image.
func RenderMessage(msg models.Message, opts Options) (Rendered, error) {
	if msg.Role == models.RoleUser {
		return renderUser(msg), nil
	}

	content := SubstitutePlaceholders(msg.Content, msg.Images)
	rw := Rewrite(content, opts.Overrides)

	out := Rendered{Links: rw.Links, Images: rw.Images}

	text, err := Markdown(rw.Markdown, opts)
	if err != nil {
		out.Text = rw.Markdown
		return out, fmt.Errorf("failed to render markdown: %w", err)
	}
	out.Text = strings.TrimRight(text, "\n")
	return out, nil
}

func renderUser(msg models.Message) Rendered {
	var sb strings.Builder
	for i, ref := range msg.Images {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(DescribeImage("", ref))
	}
	if msg.Content != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(msg.Content)
	}

	images := make([]string, len(msg.Images))
	copy(images, msg.Images)
	return Rendered{Text: sb.String(), Images: images}
}
