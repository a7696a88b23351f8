package github

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-github/v68/github"
)

// GetCurrentUser retrieves the authenticated user's identity information
// Returns ActorInfo with login and type (User or App)
func (c *Client) GetCurrentUser(ctx context.Context) (*ActorInfo, error) {
	user, _, err := c.GitHubClient().Users.Get(ctx, "")
	if err != nil {
		return nil, classifyError("get current user", opRead, err)
	}

	info := &ActorInfo{
		Login:  user.GetLogin(),
		Type:   user.GetType(),
		Source: "token",
	}

	// Bot usernames end with "[bot]", e.g. "github-actions[bot]" -> "github-actions"
	if user.GetType() == "Bot" && info.Login != "" {
		if idx := strings.Index(info.Login, "[bot]"); idx > 0 {
			info.AppSlug = info.Login[:idx]
			info.Type = "App"
		}
	}

	return info, nil
}

// ListOpenPullRequests lists the open pull requests of a repository.
// Only the first page (DefaultPerPage items) is returned.
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]*PRInfo, error) {
	opts := &github.PullRequestListOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: DefaultPerPage,
		},
	}

	prs, _, err := c.GitHubClient().PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, classifyError("list pull requests", opRead, err)
	}

	infos := make([]*PRInfo, 0, len(prs))
	for _, pr := range prs {
		infos = append(infos, convertFromGitHubPR(pr))
	}
	return infos, nil
}

// GetLatestCommitSHA returns the full SHA of the head commit of a pull request.
// The pull request's head is authoritative, so a force-push after listing is
// picked up here.
func (c *Client) GetLatestCommitSHA(ctx context.Context, owner, repo string, prNumber int) (string, error) {
	pr, _, err := c.GitHubClient().PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return "", classifyError(fmt.Sprintf("get pull request #%d", prNumber), opRead, err)
	}

	sha := pr.GetHead().GetSHA()
	if sha == "" {
		return "", &APIError{
			Op:   fmt.Sprintf("get pull request #%d", prNumber),
			Kind: ErrUnexpected,
			Err:  errors.New("pull request has no head commit"),
		}
	}
	return sha, nil
}

// convertFromGitHubPR converts a github.PullRequest to our PRInfo type
func convertFromGitHubPR(pr *github.PullRequest) *PRInfo {
	var headRef, headSHA string
	if head := pr.GetHead(); head != nil {
		headRef = head.GetRef()
		headSHA = head.GetSHA()
	}

	author := ""
	if user := pr.GetUser(); user != nil {
		author = user.GetLogin()
	}

	return &PRInfo{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		URL:     pr.GetHTMLURL(),
		HeadRef: headRef,
		HeadSHA: headSHA,
		Author:  author,
		Draft:   pr.GetDraft(),
	}
}

// ListWorkflows lists the Actions workflows of a repository (first page only)
func (c *Client) ListWorkflows(ctx context.Context, owner, repo string) ([]*WorkflowInfo, error) {
	opts := &github.ListOptions{PerPage: DefaultPerPage}

	workflows, _, err := c.GitHubClient().Actions.ListWorkflows(ctx, owner, repo, opts)
	if err != nil {
		return nil, classifyError("list workflows", opRead, err)
	}

	infos := make([]*WorkflowInfo, 0, len(workflows.Workflows))
	for _, wf := range workflows.Workflows {
		infos = append(infos, convertFromGitHubWorkflow(wf))
	}
	return infos, nil
}

// GetWorkflow fetches a single workflow by numeric ID or file name
func (c *Client) GetWorkflow(ctx context.Context, owner, repo, workflow string) (*WorkflowInfo, error) {
	op := fmt.Sprintf("get workflow %s", workflow)

	var (
		wf  *github.Workflow
		err error
	)
	if id, ok := parseWorkflowID(workflow); ok {
		wf, _, err = c.GitHubClient().Actions.GetWorkflowByID(ctx, owner, repo, id)
	} else {
		wf, _, err = c.GitHubClient().Actions.GetWorkflowByFileName(ctx, owner, repo, workflow)
	}
	if err != nil {
		return nil, classifyError(op, opRead, err)
	}

	return convertFromGitHubWorkflow(wf), nil
}

// convertFromGitHubWorkflow converts a github.Workflow to our WorkflowInfo type
func convertFromGitHubWorkflow(wf *github.Workflow) *WorkflowInfo {
	return &WorkflowInfo{
		ID:    wf.GetID(),
		Name:  wf.GetName(),
		Path:  wf.GetPath(),
		State: wf.GetState(),
	}
}

// DispatchWorkflow triggers a workflow_dispatch event. GitHub answers 204 with
// no body, so success carries no payload.
func (c *Client) DispatchWorkflow(ctx context.Context, owner, repo string, req DispatchRequest) error {
	if strings.TrimSpace(req.Workflow) == "" {
		return &APIError{Op: "dispatch workflow", Kind: ErrValidation, Err: errors.New("workflow is required")}
	}
	if strings.TrimSpace(req.Ref) == "" {
		return &APIError{Op: "dispatch workflow", Kind: ErrValidation, Err: errors.New("ref is required")}
	}

	event := github.CreateWorkflowDispatchEventRequest{
		Ref:    req.Ref,
		Inputs: make(map[string]interface{}, len(req.Inputs)),
	}
	for k, v := range req.Inputs {
		event.Inputs[k] = v
	}

	op := fmt.Sprintf("dispatch workflow %s", req.Workflow)

	var err error
	if id, ok := parseWorkflowID(req.Workflow); ok {
		_, err = c.GitHubClient().Actions.CreateWorkflowDispatchEventByID(ctx, owner, repo, id, event)
	} else {
		_, err = c.GitHubClient().Actions.CreateWorkflowDispatchEventByFileName(ctx, owner, repo, req.Workflow, event)
	}
	return classifyError(op, opWrite, err)
}

// parseWorkflowID returns the numeric workflow ID, or false for a file name
func parseWorkflowID(workflow string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(workflow), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
