package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/jewelchat/internal/attach"
	"github.com/diogo/jewelchat/internal/config"
	"github.com/diogo/jewelchat/internal/logging"
	"github.com/diogo/jewelchat/internal/render"
	"github.com/diogo/jewelchat/internal/tui"
)

func newChatCmd(deps *Dependencies, global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the assistant.

The chat keeps one conversation identifier until it is reset (ctrl+r or /reset).
Attach an image with ctrl+o or /attach <path>. Type /exit or press esc to quit.
Logs are written to log_file (default ~/.jewelchat/jewelchat.log).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(deps, global)
			if err != nil {
				return err
			}
			return runChat(deps, s)
		},
	}
}

func runChat(deps *Dependencies, s settings) error {
	logPath, err := config.GetLogPath(s.cfg)
	if err != nil {
		return err
	}
	logger, cleanup, err := logging.NewLogger(logging.Options{
		Debug: s.cfg.Verbose,
		File:  logPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer cleanup()

	downloadDir, err := config.GetDownloadDir(s.cfg)
	if err != nil {
		return err
	}

	if !render.SetTUITheme(s.cfg.TUITheme) {
		logger.Warn("unknown tui_theme, using the default", zap.String("tui_theme", s.cfg.TUITheme))
	}
	tui.UpdateTheme()

	client, err := newClient(deps, s, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	store := s.newStore()
	logger.Info("chat started",
		zap.String("thread_id", store.ConversationID()),
		zap.String("server", client.BaseURL()))

	return deps.TUI.RunChat(client, tui.Options{
		Store:       store,
		Encoder:     attach.NewEncoder(),
		Render:      render.OptionsFromConfig(&s.cfg),
		DownloadDir: downloadDir,
		Logger:      logger,
		CopyText:    deps.CopyText,
	})
}
