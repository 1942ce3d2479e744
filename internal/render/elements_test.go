package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanElements(t *testing.T) {
	tests := []struct {
		name  string
		md    string
		kinds []ElementKind
		texts []string
		dests []string
	}{
		{
			name:  "image and link",
			md:    "see ![alt](a.png) and [x](https://e.com)",
			kinds: []ElementKind{ElementImage, ElementLink},
			texts: []string{"alt", "x"},
			dests: []string{"a.png", "https://e.com"},
		},
		{
			name:  "balanced parentheses",
			md:    "[Go](https://en.wikipedia.org/wiki/Go_(language)) rocks",
			kinds: []ElementKind{ElementLink},
			texts: []string{"Go"},
			dests: []string{"https://en.wikipedia.org/wiki/Go_(language)"},
		},
		{
			name:  "angle destination",
			md:    "[x](<a b.png>)",
			kinds: []ElementKind{ElementLink},
			texts: []string{"x"},
			dests: []string{"a b.png"},
		},
		{
			name:  "empty target",
			md:    "![x]()",
			kinds: []ElementKind{ElementImage},
			texts: []string{"x"},
			dests: []string{""},
		},
		{
			name:  "image nested in link",
			md:    "[![img](a.png)](https://e.com)",
			kinds: []ElementKind{ElementLink},
			texts: []string{"![img](a.png)"},
			dests: []string{"https://e.com"},
		},
		{
			name:  "fenced code skipped",
			md:    "```\n![a](b)\n```\n[x](y)",
			kinds: []ElementKind{ElementLink},
			texts: []string{"x"},
			dests: []string{"y"},
		},
		{
			name:  "tilde fence skipped",
			md:    "~~~md\n[a](b)\n~~~\n",
		},
		{
			name: "unclosed fence runs to end",
			md:   "```\n[x](y)",
		},
		{
			name: "code span skipped",
			md:   "`![a](b)` text",
		},
		{
			name: "escaped bracket",
			md:   `\[x](y)`,
		},
		{
			name: "reference style is not inline",
			md:   "[text] (x) and [only]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements := ScanElements(tt.md)
			require.Len(t, elements, len(tt.kinds))
			for i, el := range elements {
				assert.Equal(t, tt.kinds[i], el.Kind)
				assert.Equal(t, tt.texts[i], el.Text)
				assert.Equal(t, tt.dests[i], el.Target)
				assert.True(t, strings.HasSuffix(tt.md[el.Start:el.End], ")"))
			}
		})
	}
}

func TestScanElementsTitle(t *testing.T) {
	elements := ScanElements(`![a](b.png "A title") [c](d 'e')`)
	require.Len(t, elements, 2)
	assert.Equal(t, "A title", elements[0].Title)
	assert.Equal(t, "b.png", elements[0].Target)
	assert.Equal(t, "e", elements[1].Title)
}

func TestRewriteDefaults(t *testing.T) {
	t.Run("unresolved images vanish", func(t *testing.T) {
		rw := Rewrite("Look ![a](image_1) there ![b]()", DefaultOverrides())
		assert.Equal(t, "Look  there ", rw.Markdown)
		assert.Empty(t, rw.Images)
	})

	t.Run("resolved image becomes marker", func(t *testing.T) {
		rw := Rewrite("![chart](https://x/c.png)", DefaultOverrides())
		assert.Equal(t, "_🖼 chart · https://x/c.png_", rw.Markdown)
		assert.Equal(t, []string{"https://x/c.png"}, rw.Images)
	})

	t.Run("links are numbered", func(t *testing.T) {
		rw := Rewrite("[a](u1) and [b](u2)", DefaultOverrides())
		assert.Equal(t, `[a](u1) \[1\] and [b](u2) \[2\]`, rw.Markdown)
		assert.Equal(t, []string{"u1", "u2"}, rw.Links)
	})

	t.Run("label images go through the image override", func(t *testing.T) {
		rw := Rewrite("[![i](image_0)](u)", DefaultOverrides())
		assert.Equal(t, `[](u) \[1\]`, rw.Markdown)
	})

	t.Run("code untouched", func(t *testing.T) {
		md := "`[a](b)`\n```\n![x](image_0)\n```"
		rw := Rewrite(md, DefaultOverrides())
		assert.Equal(t, md, rw.Markdown)
		assert.Empty(t, rw.Links)
	})
}

func TestRewriteCustomOverrides(t *testing.T) {
	overrides := Overrides{
		Image: func(el Element) string { return "<" + el.Target + ">" },
		Link:  func(el Element, label string, index int) string { return label },
	}

	rw := Rewrite("![a](image_0) [text](u)", overrides)
	assert.Equal(t, "<image_0> text", rw.Markdown)
	assert.Equal(t, []string{"image_0"}, rw.Images)
	assert.Equal(t, []string{"u"}, rw.Links)
}

func TestRewriteNilHooksUseDefaults(t *testing.T) {
	rw := Rewrite("![a](image_0)[b](c)", Overrides{})
	assert.Equal(t, `[b](c) \[1\]`, rw.Markdown)
}

func TestDescribeImage(t *testing.T) {
	assert.Equal(t, "🖼 image/png · 8 B", DescribeImage("", "data:image/png;base64,iVBORw0KGgo="))
	assert.Equal(t, "🖼 cat · https://x/cat.jpg", DescribeImage(" cat ", "https://x/cat.jpg"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "20.0 MB", formatSize(20*1024*1024))
}
