package server

// Tool describes a registered tool and its input schema on GET /mcp/tools.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// CallRequest is the body of POST /mcp/call.
type CallRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments"`
}

// CallResponse carries either the tool's text result or its error text.
type CallResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
