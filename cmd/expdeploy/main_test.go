package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holon-run/expdeploy/pkg/config"
	"github.com/holon-run/expdeploy/pkg/deploy"
	"github.com/holon-run/expdeploy/pkg/github"
	"github.com/holon-run/expdeploy/pkg/prompt"
)

func TestValidateEnvironmentArg(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"lowest", []string{"1"}, exitOK},
		{"highest", []string{"6"}, exitOK},
		{"zero", []string{"0"}, exitUsage},
		{"seven", []string{"7"}, exitUsage},
		{"not a number", []string{"abc"}, exitUsage},
		{"missing", nil, exitUsage},
		{"too many", []string{"1", "2"}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvironmentArg(rootCmd, tt.args)
			assert.Equal(t, tt.wantCode, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	stage := func(err error) error {
		return &deploy.StageError{Stage: deploy.StagePRsFetched, Err: err}
	}
	apiErr := func(kind error) error {
		return &github.APIError{Op: "test", Kind: kind, Err: kind}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"no pull requests", stage(deploy.ErrNoPullRequests), exitOK},
		{"usage", &usageError{errors.New("unknown flag: --nope")}, exitUsage},
		{"validation", &deploy.ValidationError{Field: "environment", Value: "9", Reason: "out of range"}, exitUsage},
		{"missing variable", configFailure(&config.Error{Variable: config.TokenEnv, Err: config.ErrMissingVariable}), exitConfig},
		{"cancelled", stage(prompt.ErrCancelled), exitCancelled},
		{"context cancelled", stage(fmt.Errorf("request: %w", context.Canceled)), exitCancelled},
		{"authentication", stage(apiErr(github.ErrAuthentication)), exitAuth},
		{"permission", stage(apiErr(github.ErrPermission)), exitAuth},
		{"not found", stage(apiErr(github.ErrNotFound)), exitNotFound},
		{"transient", stage(apiErr(github.ErrTransient)), exitDispatch},
		{"rejected dispatch", stage(apiErr(github.ErrValidation)), exitDispatch},
		{"unexpected api", stage(apiErr(github.ErrUnexpected)), exitDispatch},
		{"other", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestReportErrorUsageIncludesHelp(t *testing.T) {
	cmd := &cobra.Command{Use: "expdeploy <environment>"}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	reportError(cmd, &usageError{errors.New("expected exactly one argument")})

	assert.Contains(t, stderr.String(), "Error: expected exactly one argument")
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestReportErrorPermissionHint(t *testing.T) {
	cmd := &cobra.Command{Use: "expdeploy"}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	err := &deploy.StageError{
		Stage: deploy.StageDispatched,
		Err:   &github.APIError{Op: "DispatchWorkflow", Kind: github.ErrPermission, StatusCode: 403, Message: "Resource not accessible"},
	}
	reportError(cmd, err)

	assert.Contains(t, stderr.String(), "Resource not accessible")
	assert.Contains(t, stderr.String(), "write access to Actions")
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	versionCmd.SetOut(&stdout)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Contains(t, stdout.String(), "expdeploy version "+Version)
}
