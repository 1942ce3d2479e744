package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/jewelchat/internal/api"
	"github.com/diogo/jewelchat/internal/attach"
	"github.com/diogo/jewelchat/internal/chat"
	apierrors "github.com/diogo/jewelchat/internal/errors"
	"github.com/diogo/jewelchat/internal/logging"
	"github.com/diogo/jewelchat/internal/models"
	"github.com/diogo/jewelchat/internal/render"
)

// runQuery sends a single turn and prints the reply.
// When stdout is not a terminal only the reply text is written, with its
// image placeholders substituted.
func runQuery(ctx context.Context, deps *Dependencies, s settings, flags *queryFlags, prompt string) error {
	decorated := isTTY(deps.Stdout)
	render.SetTUITheme(s.cfg.TUITheme)

	logger, cleanup, err := logging.NewLogger(logging.Options{
		Debug:  s.cfg.Verbose,
		Writer: deps.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer cleanup()

	store := s.newStore()
	logger = logger.With(zap.String("thread_id", store.ConversationID()))

	if flags.image != "" {
		att, err := attach.NewEncoder().Encode(flags.image)
		if err != nil {
			logger.Error("attachment rejected", zap.String("path", flags.image), zap.Error(err))
			return fmt.Errorf("failed to read image: %w", err)
		}
		store.Attach(store.BeginAttach(), att)
		logger.Debug("image attached",
			zap.String("path", flags.image),
			zap.String("mime", att.MIMEType),
			zap.Int64("size", att.Size))
	}

	store.Compose(strings.TrimSpace(prompt))
	turn, ok := store.Send()
	if !ok {
		return fmt.Errorf("prompt cannot be empty")
	}

	client, err := newClient(deps, s, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, "Waiting for the assistant")
		spin.start()
	}

	startTime := time.Now()
	reply, err := client.SendTurn(ctx, turn.Request)
	store.Complete(chat.TurnResult{Generation: turn.Generation, Reply: reply, Err: err})

	if err != nil {
		logger.Error("send failed",
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Error(err))
		if decorated {
			spin.stopWithError()
		}
		return fmt.Errorf("request failed: %w", err)
	}
	if decorated {
		spin.stopWithSuccess("Done")
	}

	msg, _ := store.LastAssistant()
	logger.Debug("reply received",
		zap.Duration("took", time.Since(startTime).Round(time.Millisecond)),
		zap.Int("images", len(msg.Images)))
	text := render.SubstitutePlaceholders(msg.Content, msg.Images)

	if flags.saveImages != "" {
		saveReplyImages(deps, client, msg.Images, flags.saveImages, decorated, logger)
	}

	if !decorated {
		if flags.output != "" {
			return writeOutput(flags.output, text)
		}
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	fmt.Fprintln(deps.Stderr)

	if s.cfg.CopyToClipboard {
		if err := deps.CopyText(text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(render.GetTUITheme().Warning).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, successStyle().Render("✓ Copied to clipboard"))
		}
	}

	if flags.output != "" {
		if err := writeOutput(flags.output, text); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, successStyle().Render(fmt.Sprintf("✓ Response saved to %s", flags.output)))
		return nil
	}

	printReply(deps.Stdout, msg, render.OptionsFromConfig(&s.cfg), terminalWidth(deps.Stdout), logger)
	return nil
}

// printReply prints the assistant bubble followed by its numbered links
func printReply(out io.Writer, msg models.Message, opts render.Options, termWidth int, logger *zap.Logger) {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	theme := render.GetTUITheme()
	labelStyle := lipgloss.NewStyle().Foreground(theme.Assistant).Bold(true)
	bubbleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Assistant).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	fmt.Fprintln(out, labelStyle.Render(msg.Role.Label()+" • "+msg.Timestamp))

	rendered, err := render.RenderMessage(msg, opts.WithWidth(contentWidth))
	if err != nil {
		logger.Debug("markdown render failed", zap.Error(err))
	}
	fmt.Fprintln(out, bubbleStyle.Width(bubbleWidth).Render(rendered.Text))

	for i, link := range rendered.Links {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  [%d] %s", i+1, link)))
	}
}

// saveReplyImages writes the reply's images to dir; failures are warnings
func saveReplyImages(deps *Dependencies, client api.ChatClientInterface, images []string, dir string, decorated bool, logger *zap.Logger) {
	var refs []string
	for _, ref := range images {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		if decorated {
			fmt.Fprintln(deps.Stderr, successStyle().Render("✓ No images to save"))
		}
		return
	}

	opts := api.ImageDownloadOptions{Directory: dir}
	saved := 0
	for _, ref := range refs {
		path, err := client.SaveImage(ref, opts)
		if err != nil {
			logger.Warn("image not saved", zap.Error(err))
			continue
		}
		logger.Debug("image saved", zap.String("path", path))
		saved++
	}

	if decorated {
		fmt.Fprintln(deps.Stderr, successStyle().Render(fmt.Sprintf("✓ Saved %d of %d images to %s", saved, len(refs), dir)))
	}
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(render.GetTUITheme().Assistant)
}

// terminalWidth returns the width of w when it is a terminal, or 80
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isTTY returns true if w is connected to a terminal
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, action string) string {
	if err == nil {
		return ""
	}

	theme := render.GetTUITheme()
	errorStyle := lipgloss.NewStyle().Foreground(theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", action, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case apierrors.IsEncodingError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Attach a JPEG, PNG, GIF or WebP file under 20 MB"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the assistant server is running, or pass --server"))
	case apierrors.GetHTTPStatus(err) >= 500:
		sb.WriteString(dimStyle.Render("\n  Hint: The assistant server failed; see its logs"))
	}

	return sb.String()
}
