// Package commands provides CLI commands for jewelchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/jewelchat/internal/api"
	"github.com/diogo/jewelchat/internal/chat"
	"github.com/diogo/jewelchat/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	server  string
	thread  string
	verbose bool
}

// queryFlags belong to the one-shot root command
type queryFlags struct {
	output     string
	file       string
	image      string
	saveImages string
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	global := &globalFlags{}
	query := &queryFlags{}

	rootCmd := &cobra.Command{
		Use:   "jewelchat [prompt]",
		Short: "Terminal chat client for a multimodal assistant service",
		Long: `jewelchat talks to an assistant service over HTTP. Messages may carry
one image; replies are rendered as markdown with their images inline.

Examples:
  jewelchat chat                        Start interactive chat
  jewelchat config show                 Show settings
  jewelchat "What is Go?"               Send a single query
  jewelchat -i cat.png "What is this?"  Ask about an image
  jewelchat -f prompt.md                Read prompt from file
  cat prompt.md | jewelchat             Read prompt from stdin
  jewelchat "Hello" -o response.md      Save response to file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "jewelchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, query.file, args)
			if err != nil {
				return err
			}
			if !ok && query.image == "" {
				return cmd.Help()
			}

			s, err := loadSettings(deps, global)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), deps, s, query, prompt)
		},
	}
	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.PersistentFlags().StringVar(&global.server, "server", "", "Assistant service URL (overrides server_url and "+config.EnvServerURL+")")
	rootCmd.PersistentFlags().StringVar(&global.thread, "thread", "", "Conversation identifier to continue (default: a new one)")
	rootCmd.PersistentFlags().BoolVar(&global.verbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&query.output, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&query.file, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringVarP(&query.image, "image", "i", "", "Path to image file to include")
	rootCmd.Flags().StringVar(&query.saveImages, "save-images", "", "Save the reply's images to this directory")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(newChatCmd(deps, global))
	rootCmd.AddCommand(newConfigCmd(deps))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(NewDependencies()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "jewelchat"))
		os.Exit(1)
	}
}

// readPrompt picks the prompt from --file, piped stdin or the argument, in that order
func readPrompt(deps *Dependencies, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether r is stdin redirected from a file or pipe.
// Readers other than *os.File count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// settings is the resolved configuration of one invocation
type settings struct {
	cfg    config.Config
	thread string
}

// loadSettings reads the configuration file and applies the global flags
func loadSettings(deps *Dependencies, global *globalFlags) (settings, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if global.server != "" {
		cfg.ServerURL = global.server
	}
	if global.verbose {
		cfg.Verbose = true
	}
	return settings{cfg: cfg, thread: strings.TrimSpace(global.thread)}, nil
}

// newStore starts the conversation, continuing --thread when given
func (s settings) newStore() *chat.Store {
	if s.thread != "" {
		return chat.NewStore(chat.WithConversationID(s.thread))
	}
	return chat.NewStore()
}

// newClient returns the injected client or one built from the configuration
func newClient(deps *Dependencies, s settings, logger *zap.Logger) (api.ChatClientInterface, error) {
	if deps.Client != nil {
		return deps.Client, nil
	}
	client, err := api.NewClient(s.cfg.ServerURL,
		api.WithTimeoutSeconds(s.cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}
