package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/gorjeta/internal/fuzzy"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // Recommendation produced
	ExitNoRecommendation = 1 // No rule fired for the inputs
	ExitError            = 2 // Configuration or runtime error
)

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err)

	var noRule *fuzzy.NoRuleFiredError
	if errors.As(err, &noRule) {
		return ExitNoRecommendation
	}

	// All other errors are configuration/runtime errors
	return ExitError
}
