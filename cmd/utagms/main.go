package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/MikeSquared-Agency/utagms/internal/problem"
	"github.com/MikeSquared-Agency/utagms/internal/uta"
)

const (
	ExitSuccess    = 0
	ExitError      = 1 // configuration or runtime error
	ExitInvalid    = 2 // the problem file failed validation
	ExitInfeasible = 3 // the preference information is inconsistent
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, problem.ErrInvalid):
		return ExitInvalid
	case errors.Is(err, uta.ErrInfeasible):
		return ExitInfeasible
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
