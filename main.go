package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/tictactoe-duel/cmd"
)

// main - is the entry point of the application. It hands over to the cobra commands.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
