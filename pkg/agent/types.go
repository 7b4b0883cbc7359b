package agent

// TaskArgs is the structured argument set accompanying a task. MustPatch is
// carried as the textual token "true" or "false" on the wire to the agent.
type TaskArgs struct {
	ProjectPath string `json:"project_path"`
	Issue       string `json:"issue"`
	MustPatch   string `json:"must_patch"`
	PatchPath   string `json:"patch_path,omitempty"`
}

// TaskRequest is one unit of work handed to the agent. It lives exactly as
// long as the driver invocation that created it.
type TaskRequest struct {
	ID   string   `json:"id"`
	Task string   `json:"task"`
	Args TaskArgs `json:"args"`
}

// Message is one turn in the model conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// ToolSchema describes one tool to the model.
type ToolSchema struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// TokenUsage tracks token consumption across a task.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// LLMRequest contains the parameters for one model call.
type LLMRequest struct {
	Model        string
	Messages     []Message
	Tools        []ToolSchema
	Temperature  float64
	TopP         float64
	TopK         int
	MaxTokens    int
	SystemPrompt string
}

// LLMResponse contains the model's reply.
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// Result is the outcome of driving one task to completion.
type Result struct {
	Completed     bool       `json:"completed"`
	FinalResponse string     `json:"final_response"`
	Steps         int        `json:"steps"`
	Usage         TokenUsage `json:"usage"`
}
