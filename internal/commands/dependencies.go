package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/jewelchat/internal/api"
	"github.com/diogo/jewelchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ChatClientInterface, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client replaces the HTTP client built from the configuration.
	Client api.ChatClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// CopyText writes to the system clipboard
	CopyText func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ChatClientInterface, opts tui.Options) error {
	return tui.RunChat(client, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:      &DefaultTUI{},
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		CopyText: clipboard.WriteAll,
	}
}

// withDefaults fills the unset fields of d
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		return NewDependencies()
	}
	defaults := NewDependencies()
	out := *d
	if out.TUI == nil {
		out.TUI = defaults.TUI
	}
	if out.Stdin == nil {
		out.Stdin = defaults.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = defaults.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = defaults.Stderr
	}
	if out.CopyText == nil {
		out.CopyText = defaults.CopyText
	}
	return &out
}
