package render

import (
	"fmt"
	"strings"

	"github.com/diogo/jewelchat/internal/attach"
)

// ImageFunc renders an inline image as markdown. Returning "" drops the image.
type ImageFunc func(el Element) string

// LinkFunc renders a link whose label was already rewritten.
// index is the 1-based position of the link in the message.
type LinkFunc func(el Element, label string, index int) string

// Overrides replace the default rendering of inline elements
type Overrides struct {
	Image ImageFunc
	Link  LinkFunc
}

// DefaultOverrides suppresses unresolved images and numbers links
func DefaultOverrides() Overrides {
	return Overrides{
		Image: DefaultImage,
		Link:  DefaultLink,
	}
}

// withDefaults fills nil hooks
func (o Overrides) withDefaults() Overrides {
	if o.Image == nil {
		o.Image = DefaultImage
	}
	if o.Link == nil {
		o.Link = DefaultLink
	}
	return o
}

// DefaultImage renders nothing for an empty or placeholder target and
// a labelled marker for anything else.
func DefaultImage(el Element) string {
	if IsUnresolvedTarget(el.Target) {
		return ""
	}
	return "_" + escapeInline(DescribeImage(el.Text, el.Target)) + "_"
}

// DefaultLink keeps the link and appends its number for /open
func DefaultLink(el Element, label string, index int) string {
	return fmt.Sprintf("[%s](%s) \\[%d\\]", label, el.Target, index)
}

// DescribeImage returns a one-line description of an image reference
func DescribeImage(alt, ref string) string {
	var details []string
	if alt = strings.TrimSpace(alt); alt != "" {
		details = append(details, alt)
	}

	if attach.IsDataURI(ref) {
		if mimeType := attach.DataURIMIMEType(ref); mimeType != "" {
			details = append(details, mimeType)
		}
		if size := attach.DataURISize(ref); size >= 0 {
			details = append(details, formatSize(size))
		}
	} else {
		details = append(details, ref)
	}
	return "🖼 " + strings.Join(details, " · ")
}

// Rewritten is markdown after overrides were applied
type Rewritten struct {
	Markdown string
	// Links are link targets in display order; link N is Links[N-1]
	Links []string
	// Images are the targets of images that were kept
	Images []string
}

// Rewrite passes every inline image and link of md through the overrides
func Rewrite(md string, overrides Overrides) Rewritten {
	rw := &rewriter{overrides: overrides.withDefaults()}
	out := rw.rewrite(md)
	return Rewritten{Markdown: out, Links: rw.links, Images: rw.images}
}

type rewriter struct {
	overrides Overrides
	links     []string
	images    []string
}

func (rw *rewriter) rewrite(md string) string {
	elements := ScanElements(md)
	if len(elements) == 0 {
		return md
	}

	var sb strings.Builder
	last := 0
	for _, el := range elements {
		sb.WriteString(md[last:el.Start])
		switch el.Kind {
		case ElementImage:
			out := rw.overrides.Image(el)
			if out != "" {
				rw.images = append(rw.images, el.Target)
			}
			sb.WriteString(out)
		case ElementLink:
			label := rw.rewrite(el.Text)
			rw.links = append(rw.links, el.Target)
			sb.WriteString(rw.overrides.Link(el, label, len(rw.links)))
		}
		last = el.End
	}
	sb.WriteString(md[last:])

	return sb.String()
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
