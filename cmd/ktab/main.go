package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

var (
	// Version can be set with the Go linker.
	Version string = "master"
	// AppName is the name of this app, as displayed in the help
	// text of the root command.
	AppName = "ktab"
)

func main() {
	rootCmd := newRootCmd(&app{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	})
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
