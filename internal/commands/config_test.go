package commands

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/jewelchat/internal/config"
)

func TestConfigShow(t *testing.T) {
	for _, args := range [][]string{{"config"}, {"config", "show"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			env := newTestEnv(t, "")

			if err := env.run(args...); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var shown map[string]any
			if err := json.Unmarshal(env.stdout.Bytes(), &shown); err != nil {
				t.Fatalf("output is not JSON: %v\n%s", err, env.stdout.String())
			}
			if shown["server_url"] != config.DefaultConfig().ServerURL {
				t.Errorf("server_url = %v", shown["server_url"])
			}
		})
	}
}

func TestConfigShow_EnvOverride(t *testing.T) {
	env := newTestEnv(t, "")
	t.Setenv(config.EnvServerURL, "http://override:1234")

	if err := env.run("config", "show"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "http://override:1234") {
		t.Errorf("show should print the effective settings:\n%s", env.stdout.String())
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(config.Config) bool
		wantErr bool
	}{
		{key: "server_url", value: "http://10.0.0.5:8000/", check: func(c config.Config) bool { return c.ServerURL == "http://10.0.0.5:8000" }},
		{key: "request_timeout", value: "30", check: func(c config.Config) bool { return c.RequestTimeout == 30 }},
		{key: "copy_to_clipboard", value: "true", check: func(c config.Config) bool { return c.CopyToClipboard }},
		{key: "markdown.style", value: "dracula", check: func(c config.Config) bool { return c.Markdown.Style == "dracula" }},
		{key: "tui_theme", value: "emerald", check: func(c config.Config) bool { return c.TUITheme == "emerald" }},
		{key: "markdown.style", value: "no-such-style", wantErr: true},
		{key: "tui_theme", value: "obsidian", wantErr: true},
		{key: "server_url", value: "localhost:8000", wantErr: true},
		{key: "unknown_key", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			env := newTestEnv(t, "")

			err := env.run("config", "set", tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s was not saved: %+v", tt.key, cfg)
			}
			if !strings.Contains(env.stdout.String(), tt.key+" = ") {
				t.Errorf("stdout = %q", env.stdout.String())
			}
		})
	}
}

func TestConfigSet_Args(t *testing.T) {
	env := newTestEnv(t, "")

	if err := env.run("config", "set", "verbose"); err == nil {
		t.Error("set needs a key and a value")
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t, "")

	if err := env.run("config", "path"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(env.home, "config.json")
	if strings.TrimSpace(env.stdout.String()) != want {
		t.Errorf("path = %q, want %q", env.stdout.String(), want)
	}
}

func TestValueCompletions(t *testing.T) {
	if got := valueCompletions("verbose"); len(got) != 2 {
		t.Errorf("verbose completions = %v", got)
	}
	if got := valueCompletions("tui_theme"); len(got) == 0 {
		t.Error("expected theme names")
	}
	if got := valueCompletions("markdown.style"); len(got) == 0 {
		t.Error("expected style names")
	}
	if got := valueCompletions("server_url"); got != nil {
		t.Errorf("server_url has no fixed values, got %v", got)
	}
}
