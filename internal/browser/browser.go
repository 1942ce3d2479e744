// Package browser opens links from assistant replies in the system browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Starter launches a command without waiting for it
type Starter func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the launcher in the background
	go func() { _ = cmd.Wait() }()
	return nil
}

// Opener opens URLs in a new browsing context
type Opener struct {
	goos  string
	start Starter
}

// NewOpener returns an opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, start: startCommand}
}

// Command returns the launcher and arguments used for target on this platform
func (o *Opener) Command(target string) (string, []string) {
	switch o.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

// Open validates target and hands it to the system browser.
// Only http, https and mailto links are opened.
func (o *Opener) Open(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid link %q: %w", target, err)
	}
	switch u.Scheme {
	case "http", "https", "mailto":
	default:
		return fmt.Errorf("refusing to open %q: unsupported scheme %q", target, u.Scheme)
	}

	name, args := o.Command(u.String())
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// Open opens target with the default opener
func Open(target string) error {
	return NewOpener().Open(target)
}
