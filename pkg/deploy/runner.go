// Package deploy drives a workflow dispatch to an experimental environment:
// pick one of the caller's open pull requests, pick a workflow, resolve the
// head commit and trigger the run.
package deploy

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/holon-run/expdeploy/pkg/github"
	"github.com/holon-run/expdeploy/pkg/prompt"
)

// API is the subset of the GitHub client used by the Runner
type API interface {
	GetCurrentUser(ctx context.Context) (*github.ActorInfo, error)
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]*github.PRInfo, error)
	GetLatestCommitSHA(ctx context.Context, owner, repo string, prNumber int) (string, error)
	ListWorkflows(ctx context.Context, owner, repo string) ([]*github.WorkflowInfo, error)
	GetWorkflow(ctx context.Context, owner, repo, workflow string) (*github.WorkflowInfo, error)
	DispatchWorkflow(ctx context.Context, owner, repo string, req github.DispatchRequest) error
}

// Options selects what to dispatch
type Options struct {
	Owner       string
	Repo        string
	Environment Environment
	// Workflow is a numeric ID or file name; empty means choose interactively
	Workflow string
	// AllAuthors lists every open pull request instead of the caller's only
	AllAuthors bool
	// DryRun stops after printing the payload
	DryRun bool
}

// Result describes what was (or, in dry-run mode, would have been) dispatched
type Result struct {
	Actor       *github.ActorInfo
	PullRequest *github.PRInfo
	Workflow    *github.WorkflowInfo
	Request     github.DispatchRequest
	Dispatched  bool
}

// Runner runs the pipeline once. It is not safe for concurrent use.
type Runner struct {
	api      API
	selector prompt.Selector
	opts     Options
	out      io.Writer
	logger   *zap.Logger
	stage    Stage
}

// NewRunner creates a Runner. Configuration is already loaded, so the
// runner starts in StageConfigLoaded.
func NewRunner(api API, selector prompt.Selector, opts Options, out io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		api:      api,
		selector: selector,
		opts:     opts,
		out:      out,
		logger:   logger,
		stage:    StageConfigLoaded,
	}
}

// Stage returns the last stage reached
func (r *Runner) Stage() Stage {
	return r.stage
}

func (r *Runner) advance(next Stage) {
	r.logger.Debug("stage reached", zap.Stringer("from", r.stage), zap.Stringer("to", next))
	r.stage = next
}

func (r *Runner) fail(attempted Stage, err error) error {
	r.logger.Debug("stage failed", zap.Stringer("from", r.stage), zap.Stringer("attempted", attempted), zap.Error(err))
	r.stage = StageFailed
	return &StageError{Stage: attempted, Err: err}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Run executes the pipeline. Every error is a *StageError naming the failed step.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.opts.Environment.Validate(); err != nil {
		return nil, r.fail(StageStart, err)
	}

	result := &Result{}
	owner, repo := r.opts.Owner, r.opts.Repo

	r.printf("Authenticating with GitHub...\n")
	actor, err := r.api.GetCurrentUser(ctx)
	if err != nil {
		return nil, r.fail(StageAuthenticated, err)
	}
	result.Actor = actor
	r.printf("Authenticated as: %s\n", actor.Login)
	r.advance(StageAuthenticated)

	r.printf("Fetching PRs from %s/%s...\n", owner, repo)
	prs, err := r.api.ListOpenPullRequests(ctx, owner, repo)
	if err != nil {
		return nil, r.fail(StagePRsFetched, err)
	}
	if !r.opts.AllAuthors {
		prs = filterByAuthor(prs, actor.Login)
	}
	r.logger.Debug("pull requests fetched", zap.Int("count", len(prs)), zap.Bool("all_authors", r.opts.AllAuthors))
	if len(prs) == 0 {
		return nil, r.fail(StagePRsFetched, ErrNoPullRequests)
	}
	r.advance(StagePRsFetched)

	pr, err := r.selectPullRequest(prs)
	if err != nil {
		return nil, r.fail(StagePRSelected, err)
	}
	result.PullRequest = pr
	r.advance(StagePRSelected)

	wf, err := r.resolveWorkflow(ctx)
	if err != nil {
		return nil, err
	}
	result.Workflow = wf

	sha, err := r.api.GetLatestCommitSHA(ctx, owner, repo, pr.Number)
	if err != nil {
		return nil, r.fail(StageCommitFetched, err)
	}
	if pr.HeadSHA != "" && !strings.EqualFold(pr.HeadSHA, sha) {
		r.logger.Warn("pull request head moved since it was listed; using the current head",
			zap.Int("pr", pr.Number), zap.String("listed", pr.HeadSHA), zap.String("current", sha))
	}
	short, err := ShortSHA(sha)
	if err != nil {
		return nil, r.fail(StageCommitFetched, err)
	}
	r.advance(StageCommitFetched)

	req, err := NewDispatchRequest(strconv.FormatInt(wf.ID, 10), pr.HeadRef, short, r.opts.Environment)
	if err != nil {
		return nil, r.fail(StageDispatched, err)
	}
	result.Request = req

	r.printf("Branch: %s\n", req.Ref)
	r.printf("Commit: %s\n", short)
	r.printf("Environment: %s\n", r.opts.Environment.Target())

	payload, err := PayloadJSON(req)
	if err != nil {
		return nil, r.fail(StageDispatched, err)
	}
	r.printf("\nTriggering workflow: %s (ID: %d)\n", wf.Name, wf.ID)
	r.printf("Sending request with payload: %s\n", payload)

	if r.opts.DryRun {
		r.printf("Dry run: workflow not triggered\n")
		r.advance(StageDone)
		return result, nil
	}

	if err := r.api.DispatchWorkflow(ctx, owner, repo, req); err != nil {
		return nil, r.fail(StageDispatched, err)
	}
	result.Dispatched = true
	r.advance(StageDispatched)

	r.printf("Successfully triggered GitHub Action:\n")
	r.printf("Branch: %s\n", req.Ref)
	r.printf("Commit: %s\n", short)
	r.printf("Environment: %s\n", r.opts.Environment.Target())

	r.advance(StageDone)
	return result, nil
}

func (r *Runner) selectPullRequest(prs []*github.PRInfo) (*github.PRInfo, error) {
	labels := make([]string, len(prs))
	for i, pr := range prs {
		labels[i] = PullRequestLabel(pr, r.opts.AllAuthors)
	}

	idx, err := r.selector.Select("Select a PR", labels)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(prs) {
		return nil, fmt.Errorf("selection index %d out of range", idx)
	}
	return prs[idx], nil
}

// resolveWorkflow moves through WorkflowsFetched and WorkflowSelected.
// A configured workflow is looked up directly; otherwise the user picks one.
func (r *Runner) resolveWorkflow(ctx context.Context) (*github.WorkflowInfo, error) {
	owner, repo := r.opts.Owner, r.opts.Repo

	if r.opts.Workflow != "" {
		wf, err := r.api.GetWorkflow(ctx, owner, repo, r.opts.Workflow)
		if err != nil {
			return nil, r.fail(StageWorkflowsFetched, err)
		}
		r.advance(StageWorkflowsFetched)
		r.printf("Using workflow: %s (ID: %d)\n", wf.Name, wf.ID)
		r.advance(StageWorkflowSelected)
		return wf, nil
	}

	workflows, err := r.api.ListWorkflows(ctx, owner, repo)
	if err != nil {
		return nil, r.fail(StageWorkflowsFetched, err)
	}
	if len(workflows) == 0 {
		return nil, r.fail(StageWorkflowsFetched, fmt.Errorf("no workflows found in %s/%s", owner, repo))
	}
	r.advance(StageWorkflowsFetched)

	r.printf("\nAvailable workflows:\n")
	if err := RenderWorkflows(r.out, workflows); err != nil {
		r.logger.Warn("failed to render workflow table", zap.Error(err))
	}

	labels := make([]string, len(workflows))
	for i, wf := range workflows {
		labels[i] = WorkflowLabel(wf)
	}
	idx, err := r.selector.Select("Select workflow to run", labels)
	if err != nil {
		return nil, r.fail(StageWorkflowSelected, err)
	}
	if idx < 0 || idx >= len(workflows) {
		return nil, r.fail(StageWorkflowSelected, fmt.Errorf("selection index %d out of range", idx))
	}
	r.advance(StageWorkflowSelected)
	return workflows[idx], nil
}

func filterByAuthor(prs []*github.PRInfo, login string) []*github.PRInfo {
	var mine []*github.PRInfo
	for _, pr := range prs {
		if strings.EqualFold(pr.Author, login) {
			mine = append(mine, pr)
		}
	}
	return mine
}
