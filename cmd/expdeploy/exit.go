package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holon-run/expdeploy/pkg/config"
	"github.com/holon-run/expdeploy/pkg/deploy"
	"github.com/holon-run/expdeploy/pkg/github"
	"github.com/holon-run/expdeploy/pkg/prompt"
)

// Process exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitConfig    = 3
	exitAuth      = 4
	exitNotFound  = 5
	exitDispatch  = 6
	exitCancelled = 130
)

// exitCode maps an error returned by the command to a process exit code
func exitCode(err error) int {
	var usageErr *usageError
	var validationErr *deploy.ValidationError
	var configErr *config.Error

	switch {
	case err == nil, errors.Is(err, deploy.ErrNoPullRequests):
		return exitOK
	case errors.As(err, &usageErr), errors.As(err, &validationErr):
		return exitUsage
	case errors.As(err, &configErr):
		return exitConfig
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		return exitCancelled
	case github.IsAuthenticationError(err), github.IsPermissionError(err):
		return exitAuth
	case github.IsNotFoundError(err):
		return exitNotFound
	case github.IsTransientError(err), github.IsValidationError(err), errors.Is(err, github.ErrUnexpected):
		return exitDispatch
	default:
		return exitFailure
	}
}

// reportError prints a one-line error, with usage help for bad invocations
func reportError(cmd *cobra.Command, err error) {
	errOut := cmd.ErrOrStderr()

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(errOut, "Error: %v\n\n%s", err, cmd.UsageString())
		return
	}

	var stageErr *deploy.StageError
	if errors.As(err, &stageErr) && github.IsPermissionError(err) {
		fmt.Fprintf(errOut, "Error: %v\nThe token needs write access to Actions (\"workflow\" scope) on the repository.\n", err)
		return
	}
	if github.IsValidationError(err) {
		fmt.Fprintf(errOut, "Error: %v\nCheck that the workflow declares the commit_sha and target inputs and that the branch exists.\n", err)
		return
	}

	fmt.Fprintf(errOut, "Error: %v\n", err)
}
