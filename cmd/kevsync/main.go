// kevsync is the entry point for the KEV catalog connector: a one-shot
// extract → transform → load pipeline and an optional read API over the
// collection it maintains.
package main

import "github.com/ortelius/kevsync/cmd/kevsync/commands"

func main() {
	commands.Execute()
}
