package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/tabla/cmd"
	"github.com/thenoetrevino/tabla/internal/cli"
)

func main() {
	err := cmd.Execute()

	// StatusErrors were already reported by the command
	var statusErr *cli.StatusError
	if err != nil && !errors.As(err, &statusErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
