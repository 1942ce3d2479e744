package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/jewelchat/internal/api"
	"github.com/diogo/jewelchat/internal/attach"
	"github.com/diogo/jewelchat/internal/browser"
	"github.com/diogo/jewelchat/internal/chat"
	"github.com/diogo/jewelchat/internal/models"
	"github.com/diogo/jewelchat/internal/render"
)

const (
	placeholderText  = "Write your message..."
	placeholderImage = "Ask about this image..."
)

// Message types for the TUI
type (
	turnResultMsg struct {
		result chat.TurnResult
	}
	resetDoneMsg struct {
		threadID string
		err      error
	}
	attachResultMsg struct {
		ticket chat.AttachTicket
		result attach.Result
	}
	imagesSavedMsg struct {
		paths []string
		err   error
	}
)

// Options configures the chat model. Zero values are replaced with defaults.
type Options struct {
	Store       *chat.Store
	Encoder     *attach.Encoder
	Render      render.Options
	DownloadDir string
	Logger      *zap.Logger

	// OpenURL opens a link in a new browsing context
	OpenURL func(string) error
	// CopyText writes to the system clipboard
	CopyText func(string) error
}

// Model represents the TUI state
type Model struct {
	client      api.ChatClientInterface
	store       *chat.Store
	encoder     *attach.Encoder
	renderOpts  render.Options
	downloadDir string
	logger      *zap.Logger
	openURL     func(string) error
	copyText    func(string) error

	// UI components
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	filepicker filepicker.Model
	selector   ImageSelectorModel

	// State
	ready     bool
	picking   bool
	selecting bool
	attaching chat.AttachTicket
	status    string
	err       error
	// links of the latest assistant reply, numbered from 1
	links []string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.ChatClientInterface, opts Options) Model {
	if opts.Store == nil {
		opts.Store = chat.NewStore()
	}
	if opts.Encoder == nil {
		opts.Encoder = attach.NewEncoder()
	}
	if opts.Render.Width == 0 {
		opts.Render = render.DefaultOptions()
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = api.DefaultDownloadOptions().Directory
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.Open
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}

	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:      client,
		store:       opts.Store,
		encoder:     opts.Encoder,
		renderOpts:  opts.Render,
		downloadDir: opts.DownloadDir,
		logger:      opts.Logger,
		openURL:     opts.OpenURL,
		copyText:    opts.CopyText,
		textarea:    ta,
		spinner:     s,
		filepicker:  newFilePicker(""),
	}
}

// newFilePicker builds the attachment picker rooted at dir (default: working directory)
func newFilePicker(dir string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = attach.SupportedExtensions()
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = 10
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	if dir != "" {
		fp.CurrentDirectory = dir
	}
	return fp
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 6
		statusHeight := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		if m.selecting {
			return m.updateSelector(msg)
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.store.Pending() {
				return m, nil
			}
			return m.submit()

		case "ctrl+r":
			return m.reset()

		case "ctrl+o":
			return m.openPicker()

		case "ctrl+x":
			m.clearAttachment()
			return m, nil

		case "ctrl+y":
			m.copyLastReply()
			return m, nil

		case "ctrl+s":
			return m.chooseImages()
		}

	case turnResultMsg:
		appended := m.store.Complete(msg.result)
		if msg.result.Err != nil {
			m.logger.Error("send failed",
				zap.String("thread_id", m.store.ConversationID()),
				zap.Error(msg.result.Err))
			m.err = msg.result.Err
		} else if !appended {
			m.logger.Debug("dropped reply from before reset")
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case resetDoneMsg:
		if msg.err != nil {
			m.logger.Warn("remote reset failed",
				zap.String("thread_id", msg.threadID),
				zap.Error(msg.err))
		}

	case attachResultMsg:
		return m.applyAttachment(msg), nil

	case imagesSavedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = fmt.Sprintf("Saved %d image(s) to %s", len(msg.paths), m.downloadDir)
		}

	case spinner.TickMsg:
		if m.store.Pending() || m.attaching != 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if m.picking {
			m.filepicker, cmd = m.filepicker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only KeyMsg reaches the textarea so escape sequences never leak into the draft
	if !m.store.Pending() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.store.Compose(m.textarea.Value())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles enter: a slash command, or a send of the current draft
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	if c, ok := parseCommand(input); ok {
		m.textarea.Reset()
		m.store.Compose("")
		return m.runCommand(c)
	}

	m.store.Compose(input)
	turn, ok := m.store.Send()
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.filepicker = newFilePicker(m.filepicker.CurrentDirectory)
	m.attaching = 0
	m.status = ""
	m.err = nil
	m.refreshPlaceholder()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.sendTurn(turn), m.spinner.Tick)
}

// runCommand executes a parsed slash command
func (m Model) runCommand(c command) (tea.Model, tea.Cmd) {
	switch c.name {
	case cmdExit:
		return m, tea.Quit

	case cmdReset:
		return m.reset()

	case cmdAttach:
		if c.arg == "" {
			return m.openPicker()
		}
		return m.startAttach(expandHome(c.arg))

	case cmdOpen:
		m.openLink(c.arg)

	case cmdHelp:
		m.status = helpText()
	}
	return m, nil
}

// reset clears the conversation locally at once and asks the server to forget it
func (m Model) reset() (tea.Model, tea.Cmd) {
	req := m.store.Reset()
	m.textarea.Reset()
	m.filepicker = newFilePicker(m.filepicker.CurrentDirectory)
	m.attaching = 0
	m.picking = false
	m.selecting = false
	m.links = nil
	m.status = ""
	m.err = nil
	m.refreshPlaceholder()
	m.updateViewport()

	return m, m.resetRemote(req)
}

// openPicker shows the attachment file picker
func (m Model) openPicker() (tea.Model, tea.Cmd) {
	if m.store.Pending() {
		m.status = "Wait for the reply before attaching"
		return m, nil
	}
	m.picking = true
	return m, m.filepicker.Init()
}

// updatePicker routes keys to the file picker while it is open
func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "ctrl+o":
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.picking = false
		next, attachCmd := m.startAttach(path)
		return next, tea.Batch(cmd, attachCmd)
	}

	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.status = filepath.Base(path) + " is not a supported image"
	}

	return m, cmd
}

// startAttach reads path in the background; only the latest selection is applied
func (m Model) startAttach(path string) (Model, tea.Cmd) {
	ticket := m.store.BeginAttach()
	if ticket == 0 {
		m.status = "Wait for the reply before attaching"
		return m, nil
	}

	m.attaching = ticket
	m.status = ""
	m.err = nil

	results := m.encoder.EncodeAsync(context.Background(), path)
	return m, tea.Batch(
		func() tea.Msg {
			return attachResultMsg{ticket: ticket, result: <-results}
		},
		m.spinner.Tick,
	)
}

// applyAttachment stores a finished read if it is still the latest selection
func (m Model) applyAttachment(msg attachResultMsg) Model {
	latest := msg.ticket == m.attaching
	if latest {
		m.attaching = 0
	}

	if msg.result.Err != nil {
		m.store.Attach(msg.ticket, nil)
		m.logger.Warn("attachment rejected",
			zap.String("path", msg.result.Path),
			zap.Error(msg.result.Err))
		if latest {
			m.err = msg.result.Err
		}
		return m
	}

	if m.store.Attach(msg.ticket, msg.result.Attachment) {
		m.status = ""
		m.err = nil
		m.refreshPlaceholder()
	}
	return m
}

// clearAttachment removes the pending attachment and recreates the picker
func (m *Model) clearAttachment() {
	if !m.store.ClearAttachment() {
		return
	}
	m.attaching = 0
	m.filepicker = newFilePicker(m.filepicker.CurrentDirectory)
	m.refreshPlaceholder()
}

// refreshPlaceholder switches the input hint depending on the attachment
func (m *Model) refreshPlaceholder() {
	if m.store.Draft().Attachment != nil {
		m.textarea.Placeholder = placeholderImage
	} else {
		m.textarea.Placeholder = placeholderText
	}
}

// openLink opens link n (1-based, as typed) of the latest reply
func (m *Model) openLink(arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(m.links) {
		m.status = fmt.Sprintf("No link %q in the last reply (%d available)", arg, len(m.links))
		return
	}
	if err := m.openURL(m.links[n-1]); err != nil {
		m.err = err
		return
	}
	m.status = "Opened " + m.links[n-1]
}

// copyLastReply copies the latest assistant reply to the clipboard
func (m *Model) copyLastReply() {
	last, ok := m.store.LastAssistant()
	if !ok {
		m.status = "Nothing to copy yet"
		return
	}
	if err := m.copyText(last.Content); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return
	}
	m.status = "Copied the last reply to the clipboard"
}

// chooseImages offers the images of the latest reply for saving.
// A single image is saved right away.
func (m Model) chooseImages() (tea.Model, tea.Cmd) {
	last, ok := m.store.LastAssistant()
	var refs []string
	if ok {
		for _, ref := range last.Images {
			if ref != "" {
				refs = append(refs, ref)
			}
		}
	}

	switch len(refs) {
	case 0:
		m.status = "The last reply has no images"
		return m, nil
	case 1:
		return m, m.saveImages(refs)
	}

	m.selector = NewImageSelectorModel(refs)
	m.selector, _ = m.selector.Update(tea.WindowSizeMsg{Width: m.width - 8, Height: m.viewport.Height})
	m.selecting = true
	return m, nil
}

// updateSelector routes keys to the image selector while it is open
func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	m.selector, _ = m.selector.Update(msg)
	if !m.selector.Done() {
		return m, nil
	}

	m.selecting = false
	refs := m.selector.Selected()
	if !m.selector.IsConfirmed() || len(refs) == 0 {
		return m, nil
	}
	return m, m.saveImages(refs)
}

// saveImages writes refs to the download directory
func (m *Model) saveImages(refs []string) tea.Cmd {
	client := m.client
	opts := api.ImageDownloadOptions{Directory: m.downloadDir}
	return func() tea.Msg {
		var paths []string
		var lastErr error
		for _, ref := range refs {
			path, err := client.SaveImage(ref, opts)
			if err != nil {
				lastErr = err
				continue
			}
			paths = append(paths, path)
		}
		if len(paths) == 0 {
			return imagesSavedMsg{err: lastErr}
		}
		return imagesSavedMsg{paths: paths}
	}
}

// sendTurn dispatches a committed turn to the transport
func (m Model) sendTurn(turn chat.Turn) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.SendTurn(context.Background(), turn.Request)
		return turnResultMsg{result: chat.TurnResult{
			Generation: turn.Generation,
			Reply:      reply,
			Err:        err,
		}}
	}
}

// resetRemote asks the server to forget the conversation; failures are only logged
func (m Model) resetRemote(req chat.ResetRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.ResetConversation(context.Background(), req.ThreadID)
		return resetDoneMsg{threadID: req.ThreadID, err: err}
	}
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}
	opts := m.renderOpts.WithWidth(bubbleWidth - 4)
	m.links = nil

	for i, msg := range m.store.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		rendered, err := render.RenderMessage(msg, opts)
		if err != nil {
			m.logger.Debug("markdown render failed", zap.Error(err))
		}

		label := msg.Role.Label() + " • " + msg.Timestamp
		switch {
		case msg.Role == models.RoleUser:
			content.WriteString(userLabelStyle.Render(label) + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(rendered.Text))
		case msg.IsError():
			content.WriteString(assistantLabelStyle.Render(label) + "\n")
			content.WriteString(errorBubbleStyle.Width(bubbleWidth).Render(msg.Content))
			m.links = nil
		default:
			content.WriteString(assistantLabelStyle.Render(label) + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered.Text))
			m.links = rendered.Links
		}
		content.WriteString("\n")
	}

	if m.store.Pending() {
		content.WriteString("\n" + hintStyle.Render("Assistant is typing..."))
	}

	m.viewport.SetContent(content.String())
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ jewelchat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.client.BaseURL()),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("thread "+shortID(m.store.ConversationID())),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages or picker
	var messagesContent string
	switch {
	case m.selecting:
		messagesContent = pickerPanelStyle.Render(m.selector.View())
	case m.picking:
		messagesContent = pickerPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("Attach an image"),
			m.filepicker.View(),
			hintStyle.Render("enter select • esc cancel"),
		))
	case m.store.Len() == 0:
		messagesContent = m.renderWelcome()
	default:
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputParts []string
	if preview := m.renderAttachment(); preview != "" {
		inputParts = append(inputParts, preview)
	}
	if m.store.Pending() {
		inputParts = append(inputParts, m.spinner.View()+" "+loadingStyle.Render("Assistant is typing..."))
	} else {
		inputParts = append(inputParts, inputLabelStyle.Render("You"), m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, inputParts...)))

	// Status line and shortcuts
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	} else if m.status != "" {
		sections = append(sections, statusMessageStyle.Render(m.status))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAttachment previews the pending attachment above the input
func (m Model) renderAttachment() string {
	if m.attaching != 0 {
		return attachmentStyle.Render(m.spinner.View() + " Reading image...")
	}
	att := m.store.Draft().Attachment
	if att == nil {
		return ""
	}
	line := render.DescribeImage(att.Name, att.DataURI)
	return attachmentStyle.Render(line + attachmentHintStyle.Render("  (ctrl+x to remove)"))
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Start a conversation..."),
		"",
		welcomeStyle.Width(width).Render("Type a message below, or press ctrl+o to attach an image"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^O", "Attach"},
		{"^X", "Remove"},
		{"^R", "Reset"},
		{"^Y", "Copy"},
		{"^S", "Save images"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// RunChat starts the chat TUI
func RunChat(client api.ChatClientInterface, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(client, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
