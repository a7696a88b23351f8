package deploy

// Stage is a state of the deployment pipeline. The pipeline only moves
// forward; any failure ends in StageFailed.
type Stage int

const (
	StageStart Stage = iota
	StageConfigLoaded
	StageAuthenticated
	StagePRsFetched
	StagePRSelected
	StageWorkflowsFetched
	StageWorkflowSelected
	StageCommitFetched
	StageDispatched
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageStart:            "Start",
	StageConfigLoaded:     "ConfigLoaded",
	StageAuthenticated:    "Authenticated",
	StagePRsFetched:       "PRsFetched",
	StagePRSelected:       "PRSelected",
	StageWorkflowsFetched: "WorkflowsFetched",
	StageWorkflowSelected: "WorkflowSelected",
	StageCommitFetched:    "CommitFetched",
	StageDispatched:       "Dispatched",
	StageDone:             "Done",
	StageFailed:           "Failed",
}

// stageSteps describes the work done to reach a stage, for error messages
var stageSteps = map[Stage]string{
	StageStart:            "validating arguments",
	StageConfigLoaded:     "loading configuration",
	StageAuthenticated:    "authenticating with GitHub",
	StagePRsFetched:       "fetching pull requests",
	StagePRSelected:       "selecting a pull request",
	StageWorkflowsFetched: "fetching workflows",
	StageWorkflowSelected: "selecting a workflow",
	StageCommitFetched:    "fetching the commit SHA",
	StageDispatched:       "dispatching the workflow",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Description is the step that leads to s, e.g. "fetching pull requests"
func (s Stage) Description() string {
	if step, ok := stageSteps[s]; ok {
		return step
	}
	return s.String()
}
