package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/jewelchat/internal/config"
	"github.com/diogo/jewelchat/internal/render"
)

// newConfigCmd creates the config command and its subcommands
func newConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change jewelchat settings stored in ~/.jewelchat/config.json.
The directory can be moved with ` + config.EnvHome + `.

Keys:
  ` + strings.Join(config.Keys(), "\n  "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Example: `  jewelchat config set server_url http://10.0.0.5:8000
  jewelchat config set markdown.style dracula
  jewelchat config set tui_theme emerald`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			case 1:
				return valueCompletions(args[0]), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfig(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the location of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	return cmd
}

func showConfig(deps *Dependencies) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}

func setConfig(deps *Dependencies, key, value string) error {
	switch key {
	case "markdown.style":
		if err := render.ValidateStyle(value); err != nil {
			return err
		}
	case "tui_theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui_theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}

	// a broken file is replaced rather than preserved
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v (starting from defaults)\n", err)
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s = %s\n", key, strings.TrimSpace(value))
	return nil
}

// valueCompletions suggests values for keys with a closed set
func valueCompletions(key string) []string {
	switch key {
	case "markdown.style":
		return render.StyleNames()
	case "tui_theme":
		return render.TUIThemeNames()
	case "verbose", "copy_to_clipboard", "markdown.enable_emoji", "markdown.preserve_newlines",
		"markdown.table_wrap", "markdown.inline_table_links":
		return []string{"true", "false"}
	}
	return nil
}
