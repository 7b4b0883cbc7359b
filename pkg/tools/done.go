package tools

import "context"

// DoneToolName is the tool the model calls to signal that the task is
// complete; the agent stops its step loop when it sees this call.
const DoneToolName = "task_done"

// NewTaskDoneTool constructs the completion-signal tool.
func NewTaskDoneTool() (*Tool, error) {
	return &Tool{
		Name:        DoneToolName,
		Description: "Mark the task as complete. Call this once the task is fully done.",
		Parameters: []Parameter{
			{Name: "summary", Type: "string", Description: "Short summary of what was done."},
		},
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			summary, _ := params["summary"].(string)
			if summary == "" {
				return "task marked as complete", nil
			}
			return summary, nil
		},
	}, nil
}
