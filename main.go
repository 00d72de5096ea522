// main.go
//
// Entry point for the Colordle server binary.
// Configuration, logging and storage are set up by the cli package; see
// `colordle --help` for the available commands.

package main

import "github.com/robalobadob/colordle/apps/go-server/internal/cli"

func main() {
	cli.Execute()
}
