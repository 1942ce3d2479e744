package tui

import "strings"

type commandName int

const (
	cmdExit commandName = iota + 1
	cmdReset
	cmdAttach
	cmdOpen
	cmdHelp
)

type command struct {
	name commandName
	arg  string
}

var commandAliases = map[string]commandName{
	"/exit":   cmdExit,
	"/quit":   cmdExit,
	"exit":    cmdExit,
	"quit":    cmdExit,
	"/reset":  cmdReset,
	"/clear":  cmdReset,
	"/attach": cmdAttach,
	"/open":   cmdOpen,
	"/help":   cmdHelp,
}

// parseCommand recognizes chat commands typed into the input.
// Anything else, including unknown slash words, is sent as a message.
func parseCommand(input string) (command, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return command{}, false
	}

	word, arg, _ := strings.Cut(trimmed, " ")
	name, ok := commandAliases[strings.ToLower(word)]
	if !ok {
		return command{}, false
	}

	arg = strings.TrimSpace(arg)
	// bare exit/quit are only commands on their own
	if !strings.HasPrefix(word, "/") && arg != "" {
		return command{}, false
	}
	if (name == cmdExit || name == cmdReset || name == cmdHelp) && arg != "" {
		return command{}, false
	}
	return command{name: name, arg: arg}, true
}

func helpText() string {
	return "/attach [path]  /open N  /reset  /exit"
}
