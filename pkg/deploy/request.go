package deploy

import (
	"encoding/json"
	"strings"

	"github.com/holon-run/expdeploy/pkg/github"
)

// Workflow input names expected by the deployment workflow
const (
	InputCommitSHA = "commit_sha"
	InputTarget    = "target"
)

// NewDispatchRequest builds the workflow_dispatch payload for a pull request
// branch. shortSHA must already be the 7-character form (see ShortSHA).
func NewDispatchRequest(workflow, ref, shortSHA string, env Environment) (github.DispatchRequest, error) {
	if err := env.Validate(); err != nil {
		return github.DispatchRequest{}, err
	}
	if strings.TrimSpace(ref) == "" {
		return github.DispatchRequest{}, &ValidationError{Field: "ref", Value: ref, Reason: "is empty"}
	}
	if strings.TrimSpace(workflow) == "" {
		return github.DispatchRequest{}, &ValidationError{Field: "workflow", Value: workflow, Reason: "is empty"}
	}
	short, err := ShortSHA(shortSHA)
	if err != nil {
		return github.DispatchRequest{}, err
	}
	if short != shortSHA {
		return github.DispatchRequest{}, &ValidationError{Field: "commit_sha", Value: shortSHA, Reason: "must be exactly 7 lowercase hex characters"}
	}

	return github.DispatchRequest{
		Workflow: workflow,
		Ref:      ref,
		Inputs: map[string]string{
			InputCommitSHA: short,
			InputTarget:    env.Target(),
		},
	}, nil
}

// PayloadJSON renders the request body sent to the dispatch endpoint
func PayloadJSON(req github.DispatchRequest) (string, error) {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
