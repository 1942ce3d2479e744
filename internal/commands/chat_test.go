package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/jewelchat/internal/config"
	"github.com/diogo/jewelchat/internal/render"
)

func TestChatCommand(t *testing.T) {
	cmd := newChatCmd(NewDependencies(), &globalFlags{})

	if cmd.Use != "chat" {
		t.Errorf("Expected use 'chat', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if cmd.Args == nil {
		t.Fatal("Args validation should be configured")
	}
	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("chat should reject positional arguments")
	}
}

func TestChatCommand_RunsTUI(t *testing.T) {
	env := newTestEnv(t, "")

	if err := env.run("chat", "--thread", "thread-42", "--verbose"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !env.tui.called {
		t.Fatal("the TUI was not started")
	}
	if env.tui.client != env.client {
		t.Error("the TUI should get the configured client")
	}

	opts := env.tui.opts
	if opts.Store == nil || opts.Store.ConversationID() != "thread-42" {
		t.Errorf("store should continue --thread")
	}
	if opts.Encoder == nil || opts.Logger == nil || opts.CopyText == nil {
		t.Error("encoder, logger and clipboard should be wired")
	}
	if opts.DownloadDir != filepath.Join(env.home, "images") {
		t.Errorf("DownloadDir = %q", opts.DownloadDir)
	}
	if info, err := os.Stat(opts.DownloadDir); err != nil || !info.IsDir() {
		t.Error("the download directory should be created")
	}
	if opts.Render.Style != render.StyleAuto {
		t.Errorf("Render.Style = %q, want %q", opts.Render.Style, render.StyleAuto)
	}
	if !env.client.CloseCalled {
		t.Error("client should be closed after the chat")
	}

	logData, err := os.ReadFile(filepath.Join(env.home, "jewelchat.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(logData), "chat started") || !strings.Contains(string(logData), "thread-42") {
		t.Errorf("log = %q", logData)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("the chat must not log to stderr, got %q", env.stderr.String())
	}
}

func TestChatCommand_UsesConfig(t *testing.T) {
	env := newTestEnv(t, "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = render.StyleDracula
	cfg.TUITheme = "ruby"
	cfg.DownloadDir = filepath.Join(env.home, "saved")
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}
	defer render.SetTUITheme("amethyst")

	if err := env.run("chat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.tui.opts.Render.Style != render.StyleDracula {
		t.Errorf("Render.Style = %q", env.tui.opts.Render.Style)
	}
	if env.tui.opts.DownloadDir != cfg.DownloadDir {
		t.Errorf("DownloadDir = %q", env.tui.opts.DownloadDir)
	}
	if render.GetTUITheme().Name != "ruby" {
		t.Errorf("theme = %q, want ruby", render.GetTUITheme().Name)
	}
}

func TestChatCommand_TUIError(t *testing.T) {
	env := newTestEnv(t, "")
	env.tui.err = errors.New("no terminal")

	if err := env.run("chat"); err == nil || !strings.Contains(err.Error(), "no terminal") {
		t.Errorf("expected the TUI error, got %v", err)
	}
}
