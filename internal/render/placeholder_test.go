package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Placeholder
	}{
		{name: "none", content: "plain text"},
		{
			name:    "two tokens",
			content: "Look (image_0) and (image_12)",
			want: []Placeholder{
				{Start: 5, End: 14, Index: 0},
				{Start: 19, End: 29, Index: 12},
			},
		},
		{name: "no digits", content: "(image_) (image_x)"},
		{name: "unterminated", content: "(image_3"},
		{name: "trailing garbage", content: "(image_3a)"},
		{
			name:    "recovers after near miss",
			content: "(image_(image_1)",
			want:    []Placeholder{{Start: 7, End: 16, Index: 1}},
		},
		{
			name:    "huge index never resolves",
			content: "(image_99999999999999999999999)",
			want:    []Placeholder{{Start: 0, End: 31, Index: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindPlaceholders(tt.content))
		})
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		content string
		images  []string
		want    string
	}{
		{
			name:    "all resolved",
			content: "Look (image_0) and (image_1)",
			images:  []string{"A", "B"},
			want:    "Look (A) and (B)",
		},
		{
			name:    "out of range left untouched",
			content: "Look (image_0) and (image_1)",
			images:  []string{"A"},
			want:    "Look (A) and (image_1)",
		},
		{
			name:    "no images",
			content: "Look (image_0)",
			images:  nil,
			want:    "Look (image_0)",
		},
		{
			name:    "empty reference is unresolved",
			content: "(image_0)(image_1)",
			images:  []string{"", "B"},
			want:    "(image_0)(B)",
		},
		{
			name:    "markdown image target",
			content: "![chart](image_0)",
			images:  []string{"https://x/c.png"},
			want:    "![chart](https://x/c.png)",
		},
		{
			name:    "repeated index",
			content: "(image_0) again (image_0)",
			images:  []string{"A"},
			want:    "(A) again (A)",
		},
		{
			name:    "bare token without parens",
			content: "image_0 stays",
			images:  []string{"A"},
			want:    "image_0 stays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstitutePlaceholders(tt.content, tt.images))
		})
	}
}

func TestIsUnresolvedTarget(t *testing.T) {
	assert.True(t, IsUnresolvedTarget(""))
	assert.True(t, IsUnresolvedTarget("  "))
	assert.True(t, IsUnresolvedTarget("image_4"))
	assert.False(t, IsUnresolvedTarget("https://x/image_4.png"))
	assert.False(t, IsUnresolvedTarget("data:image/png;base64,AA"))
}
