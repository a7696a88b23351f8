package github

// PRInfo contains the pull request fields needed to pick a dispatch target
type PRInfo struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	HeadRef string `json:"head_ref"`
	HeadSHA string `json:"head_sha"`
	Author  string `json:"author"`
	Draft   bool   `json:"draft,omitempty"`
}

// WorkflowInfo describes a GitHub Actions workflow of a repository
type WorkflowInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`  // e.g., ".github/workflows/deploy.yml"
	State string `json:"state"` // active, disabled_manually, ...
}

// DispatchRequest is the payload of a workflow_dispatch call
type DispatchRequest struct {
	// Workflow is a numeric workflow ID or a workflow file name (e.g., "deploy.yml")
	Workflow string            `json:"-"`
	Ref      string            `json:"ref"`
	Inputs   map[string]string `json:"inputs,omitempty"`
}

// ActorInfo represents the authenticated GitHub user or app
type ActorInfo struct {
	Login   string `json:"login"`              // Username or app name
	Type    string `json:"type"`               // "User" or "App"
	Source  string `json:"source,omitempty"`   // "token"
	AppSlug string `json:"app_slug,omitempty"` // App slug if type is "App"
}
