// Package main is the entry point for the matrix-tpl CLI application.
package main

import (
	"os"

	"github.com/ai-infra-matrix/matrix-tpl/cmd"
	"github.com/ai-infra-matrix/matrix-tpl/internal/errors"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
