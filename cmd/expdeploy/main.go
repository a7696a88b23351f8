package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/holon-run/expdeploy/pkg/config"
	"github.com/holon-run/expdeploy/pkg/deploy"
	"github.com/holon-run/expdeploy/pkg/github"
	xlog "github.com/holon-run/expdeploy/pkg/log"
	"github.com/holon-run/expdeploy/pkg/prompt"
)

var workflowFlag string
var envFile string
var apiURL string
var logLevel string
var logFormat string
var allAuthors bool
var dryRun bool
var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:   "expdeploy <environment>",
	Short: "Deploy one of your open pull requests to an experimental environment",
	Long: `Trigger a GitHub Actions workflow_dispatch for one of your open pull requests.

The environment argument is a number from 1 to 6 and is sent to the workflow
as target=experimentalN, together with commit_sha set to the first 7
characters of the pull request's head commit.

Configuration is read from the environment and from a .env file in the
current directory:

  GITHUB_TOKEN                      personal access token (required)
  GITHUB_ORG                        repository owner (required)
  GITHUB_REPO                       repository name (required)
  DEPLOY_EXPERIMENTAL_WORKFLOW_ID   workflow ID or file name (optional)
  GITHUB_API_URL                    API base URL for GitHub Enterprise (optional)`,
	Example: `  expdeploy 3
  expdeploy 1 --workflow deploy-experimental.yml
  expdeploy 6 --dry-run`,
	Args:          validateEnvironmentArg,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDeploy,
}

// usageError marks a bad invocation (missing argument, unknown flag)
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func validateEnvironmentArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &usageError{fmt.Errorf("expected exactly one argument: the environment number (%d-%d)",
			deploy.MinEnvironment, deploy.MaxEnvironment)}
	}
	if _, err := deploy.ParseEnvironment(args[0]); err != nil {
		return &deploy.StageError{Stage: deploy.StageStart, Err: err}
	}
	return nil
}

func runDeploy(cmd *cobra.Command, args []string) error {
	env, err := deploy.ParseEnvironment(args[0])
	if err != nil {
		return &deploy.StageError{Stage: deploy.StageStart, Err: err}
	}

	project, err := config.LoadFromCurrentDir()
	if err != nil {
		return configFailure(&config.Error{Variable: config.ConfigPath, Err: err})
	}

	envCfg, err := config.LoadEnv(envFile)
	if err != nil {
		return configFailure(err)
	}

	logger, err := buildLogger(project, envCfg)
	if err != nil {
		return configFailure(err)
	}
	defer func() { _ = logger.Sync() }()

	workflow, workflowSource := project.ResolveWorkflow(workflowFlag, envCfg.Workflow)

	baseURL, _ := project.ResolveString(apiURL, envCfg.APIURL, "", github.DefaultBaseURL)
	if err := github.ValidateBaseURL(baseURL); err != nil {
		return configFailure(&config.Error{Variable: config.APIURLEnv, Err: err})
	}

	logger.Debug("configuration loaded",
		zap.String("org", envCfg.Org),
		zap.String("repo", envCfg.Repo),
		zap.Stringer("token", envCfg.Token),
		zap.String("workflow", workflow),
		zap.String("workflow_source", workflowSource),
		zap.String("api_url", baseURL),
		zap.String("env_file", envCfg.EnvFileUsed),
	)

	client := github.NewClient(envCfg.Token.Value(),
		github.WithBaseURL(baseURL),
		github.WithTimeout(timeout),
	)

	runner := deploy.NewRunner(client, prompt.NewTerminalSelector(), deploy.Options{
		Owner:       envCfg.Org,
		Repo:        envCfg.Repo,
		Environment: env,
		Workflow:    workflow,
		AllAuthors:  project.IncludeAllAuthors(allAuthors),
		DryRun:      dryRun,
	}, cmd.OutOrStdout(), logger)

	_, err = runner.Run(cmd.Context())
	return err
}

func configFailure(err error) error {
	return &deploy.StageError{Stage: deploy.StageConfigLoaded, Err: err}
}

func buildLogger(project *config.ProjectConfig, envCfg *config.Env) (*zap.Logger, error) {
	rawLevel, _ := project.ResolveLogLevel(logLevel, envCfg.LogLevel, string(xlog.DefaultLevel))
	level, err := xlog.ParseLevel(rawLevel)
	if err != nil {
		return nil, &config.Error{Variable: "log level", Err: err}
	}

	rawFormat, _ := project.ResolveLogFormat(logFormat, envCfg.LogFormat, string(xlog.DefaultFormat))
	format, err := xlog.ParseFormat(rawFormat)
	if err != nil {
		return nil, &config.Error{Variable: "log format", Err: err}
	}

	return xlog.New(level, format)
}

func init() {
	rootCmd.Flags().StringVarP(&workflowFlag, "workflow", "w", "", "Workflow ID or file name (skips the workflow prompt)")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env when present)")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "", "GitHub API base URL (default: https://api.github.com)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: warn)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "Log format: console, json (default: console)")
	rootCmd.Flags().BoolVarP(&allAuthors, "all-authors", "a", false, "List open pull requests from every author")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the dispatch payload without triggering the workflow")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP timeout per GitHub API call (0 = no timeout)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if errors.Is(err, deploy.ErrNoPullRequests) {
		fmt.Println("No open pull requests found for your user")
	} else if err != nil {
		reportError(rootCmd, err)
	}
	os.Exit(exitCode(err))
}
