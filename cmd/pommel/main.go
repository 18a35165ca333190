package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Classification completed cleanly
	ExitIncomplete = 1 // Classification completed with element errors
	ExitError      = 2 // Configuration or runtime error
)

// IncompleteError indicates that the engine ran successfully, but one or
// more elements could not be classified on every axis.
type IncompleteError struct {
	Message string
}

func (e *IncompleteError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var incompleteErr *IncompleteError
		if errors.As(err, &incompleteErr) {
			os.Exit(ExitIncomplete)
		}

		os.Exit(ExitError)
	}
}
