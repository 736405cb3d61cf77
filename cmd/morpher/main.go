package main

import (
	"context"
	"errors"
	"os"
)

func main() {
	root := newRootCommand()
	err := root.Execute()
	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
