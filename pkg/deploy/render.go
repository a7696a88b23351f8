package deploy

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/holon-run/expdeploy/pkg/github"
)

// PullRequestLabel is the selector entry for a pull request, e.g. "#41 - Fix login"
func PullRequestLabel(pr *github.PRInfo, withAuthor bool) string {
	label := fmt.Sprintf("#%d - %s", pr.Number, pr.Title)
	if pr.Draft {
		label += " [draft]"
	}
	if withAuthor && pr.Author != "" {
		label += " (@" + pr.Author + ")"
	}
	return label
}

// WorkflowLabel is the selector entry for a workflow, e.g. "Deploy (.github/workflows/deploy.yml)"
func WorkflowLabel(wf *github.WorkflowInfo) string {
	return fmt.Sprintf("%s (%s)", wf.Name, wf.Path)
}

// RenderWorkflows prints the available workflows as a table
func RenderWorkflows(w io.Writer, workflows []*github.WorkflowInfo) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	table.Header("ID", "Name", "File", "State")

	for _, wf := range workflows {
		if err := table.Append(strconv.FormatInt(wf.ID, 10), wf.Name, wf.Path, wf.State); err != nil {
			return fmt.Errorf("failed to render workflow %d: %w", wf.ID, err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render workflows: %w", err)
	}
	return nil
}
