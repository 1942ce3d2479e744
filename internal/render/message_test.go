package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/jewelchat/internal/models"
)

func plainOptions() Options {
	return DefaultOptions().WithStyle(StyleNoTTY).WithEmoji(false)
}

func TestRenderMessageAssistantImages(t *testing.T) {
	content := "Look ![first](image_0) and ![second](image_1)"

	t.Run("both resolved", func(t *testing.T) {
		msg := models.Message{Role: models.RoleAssistant, Content: content, Images: []string{"https://x/A.png", "https://x/B.png"}}

		out, err := RenderMessage(msg, plainOptions())
		require.NoError(t, err)
		assert.Contains(t, out.Text, "first")
		assert.Contains(t, out.Text, "second")
		assert.Equal(t, []string{"https://x/A.png", "https://x/B.png"}, out.Images)
	})

	t.Run("missing index suppressed", func(t *testing.T) {
		msg := models.Message{Role: models.RoleAssistant, Content: content, Images: []string{"https://x/A.png"}}

		out, err := RenderMessage(msg, plainOptions())
		require.NoError(t, err)
		assert.Contains(t, out.Text, "first")
		assert.NotContains(t, out.Text, "second")
		assert.NotContains(t, out.Text, "image_1")
		assert.Equal(t, []string{"https://x/A.png"}, out.Images)
	})
}

func TestRenderMessageTextualPlaceholders(t *testing.T) {
	msg := models.Message{Role: models.RoleAssistant, Content: "Look (image_0) and (image_1)", Images: []string{"A", "B"}}
	out, err := RenderMessage(msg, plainOptions())
	require.NoError(t, err)
	assert.Contains(t, out.Text, "(A)")
	assert.Contains(t, out.Text, "(B)")

	msg.Images = []string{"A"}
	out, err = RenderMessage(msg, plainOptions())
	require.NoError(t, err)
	assert.Contains(t, out.Text, "(A)")
	assert.Contains(t, out.Text, "(image_1)")
}

func TestRenderMessageLinks(t *testing.T) {
	msg := models.Message{
		Role:    models.RoleAssistant,
		Content: "Read [the docs](https://example.com/docs) or [the code](https://example.com/code).",
	}

	out, err := RenderMessage(msg, plainOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/docs", "https://example.com/code"}, out.Links)
	assert.Contains(t, out.Text, "the docs")
	assert.Contains(t, out.Text, "[2]")
}

func TestRenderMessageErrorLiteral(t *testing.T) {
	msg := models.Message{Role: models.RoleAssistant, Content: models.ErrorLiteral}
	out, err := RenderMessage(msg, plainOptions())
	require.NoError(t, err)
	assert.Contains(t, out.Text, "System Error.")
	assert.False(t, strings.HasSuffix(out.Text, "\n"))
}

func TestRenderMessageUser(t *testing.T) {
	msg := models.Message{
		Role:    models.RoleUser,
		Content: "what is (image_0)?",
		Images:  []string{"data:image/png;base64,iVBORw0KGgo=", "https://x/b.jpg"},
	}

	out, err := RenderMessage(msg, plainOptions())
	require.NoError(t, err)
	assert.Equal(t, "🖼 image/png · 8 B\n🖼 https://x/b.jpg\nwhat is (image_0)?", out.Text)
	assert.Equal(t, msg.Images, out.Images)
	assert.Empty(t, out.Links)

	out.Images[0] = "changed"
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", msg.Images[0])
}

func TestRenderMessageUserTextOnly(t *testing.T) {
	out, err := RenderMessage(models.Message{Role: models.RoleUser, Content: "hello"}, plainOptions())
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Text)
}

func TestRenderMessageInvalidStyle(t *testing.T) {
	msg := models.Message{Role: models.RoleAssistant, Content: "**hi**"}
	out, err := RenderMessage(msg, DefaultOptions().WithStyle("/nonexistent/style.json"))
	assert.Error(t, err)
	assert.Equal(t, "**hi**", out.Text)
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		contains string
	}{
		{name: "heading", input: "# Hello World", contains: "Hello"},
		{name: "bold", input: "This is **bold** text", contains: "bold"},
		{name: "code_block", input: "```go\nfmt.Println(\"hello\")\n```", contains: "Println"},
		{name: "table", input: "| A | B |\n|---|---|\n| 1 | 2 |", contains: "A"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := Markdown(tc.input, DefaultOptions().WithStyle(StyleDark))
			require.NoError(t, err)
			assert.Contains(t, output, tc.contains)
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	output, err := Markdown("Hello :smile: world", DefaultOptions().WithStyle(StyleDark))
	require.NoError(t, err)
	assert.NotContains(t, output, ":smile:")

	output, err = Markdown("Hello :smile: world", DefaultOptions().WithStyle(StyleDark).WithEmoji(false))
	require.NoError(t, err)
	assert.Contains(t, output, ":smile:")
}
