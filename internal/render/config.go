package render

import (
	"os"

	"github.com/diogo/jewelchat/internal/config"
)

// OptionsFromConfig builds render options from a loaded configuration.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()

	if cfg != nil {
		md := cfg.Markdown
		if md.Style != "" {
			opts.Style = md.Style
		}
		opts.EnableEmoji = md.EnableEmoji
		opts.PreserveNewLines = md.PreserveNewLines
		opts.TableWrap = md.TableWrap
		opts.InlineTableLinks = md.InlineTableLinks
	}

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
