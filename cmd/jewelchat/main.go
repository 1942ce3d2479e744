// Command jewelchat is a terminal chat client for a multimodal assistant service.
package main

import "github.com/diogo/jewelchat/internal/commands"

func main() {
	commands.Execute()
}
