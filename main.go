// ./main.go
package main

import (
	"github.com/Yangsun94/Gmarket-Project/cmd"
)

// main is the entry point for the gmkt command line tool.
func main() {
	// Execute the root command defined in the cmd package.
	// This handles all command-line parsing, configuration, and execution.
	cmd.Execute()
}
