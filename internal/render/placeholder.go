package render

import (
	"strconv"
	"strings"

	"github.com/diogo/jewelchat/internal/models"
)

// Placeholder is one (image_N) token found in assistant text
type Placeholder struct {
	// Start and End are byte offsets of the token including parentheses
	Start int
	End   int
	// Index is the N in image_N
	Index int
}

// FindPlaceholders returns every (image_<digits>) token in content, left to right.
func FindPlaceholders(content string) []Placeholder {
	var found []Placeholder
	token := "(" + models.PlaceholderPrefix

	for offset := 0; offset < len(content); {
		i := strings.Index(content[offset:], token)
		if i < 0 {
			break
		}
		start := offset + i
		pos := start + len(token)

		digits := pos
		for digits < len(content) && content[digits] >= '0' && content[digits] <= '9' {
			digits++
		}

		if digits == pos || digits >= len(content) || content[digits] != ')' {
			offset = start + 1
			continue
		}

		index, err := strconv.Atoi(content[pos:digits])
		if err != nil {
			// Too many digits to be a real index; never resolvable
			index = -1
		}
		found = append(found, Placeholder{Start: start, End: digits + 1, Index: index})
		offset = digits + 1
	}

	return found
}

// SubstitutePlaceholders replaces each (image_N) token with (images[N]).
// Tokens whose index is out of range or whose image is empty are left as they are,
// so the image override can suppress them at render time.
func SubstitutePlaceholders(content string, images []string) string {
	placeholders := FindPlaceholders(content)
	if len(placeholders) == 0 {
		return content
	}

	var sb strings.Builder
	sb.Grow(len(content))
	last := 0

	for _, p := range placeholders {
		if p.Index < 0 || p.Index >= len(images) || images[p.Index] == "" {
			continue
		}
		sb.WriteString(content[last:p.Start])
		sb.WriteByte('(')
		sb.WriteString(images[p.Index])
		sb.WriteByte(')')
		last = p.End
	}
	sb.WriteString(content[last:])

	return sb.String()
}

// IsUnresolvedTarget reports whether an image target still points at a placeholder
func IsUnresolvedTarget(target string) bool {
	target = strings.TrimSpace(target)
	return target == "" || strings.HasPrefix(target, models.PlaceholderPrefix)
}
