package hookify

import (
	"encoding/json"
	"fmt"
	"io"
)

// maxInputBytes caps stdin reads. Hook payloads are small JSON objects;
// 1 MB is generous headroom that prevents unbounded allocation.
const maxInputBytes = 1 << 20

// HookInput is the JSON document Claude Code writes to a hook's stdin.
// The schema is owned by the host, so every field is optional; the raw
// document is kept for pattern and condition evaluation.
type HookInput struct {
	SessionID      string          `json:"session_id"`
	CWD            string          `json:"cwd"`
	HookEventName  string          `json:"hook_event_name"`
	Prompt         string          `json:"prompt"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	ToolResponse   json.RawMessage `json:"tool_response"`
	StopHookActive bool            `json:"stop_hook_active"`

	raw      []byte
	fields   map[string]interface{}
	toolArgs map[string]interface{}
}

// ParseHookInput reads and parses one hook input JSON document from a reader.
func ParseHookInput(reader io.Reader) (*HookInput, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxInputBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var input HookInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	input.raw = data
	input.fields = fields

	if len(input.ToolInput) > 0 {
		var toolArgs map[string]interface{}
		if err := json.Unmarshal(input.ToolInput, &toolArgs); err != nil {
			return nil, fmt.Errorf("failed to parse tool_input: %w", err)
		}
		input.toolArgs = toolArgs
	}

	return &input, nil
}

// Raw returns the unmodified input document.
func (h *HookInput) Raw() []byte {
	return h.raw
}

// Fields returns the input as a generic map for condition evaluation.
func (h *HookInput) Fields() map[string]interface{} {
	return h.fields
}

// GetStringArg retrieves a string argument from tool_input.
// Returns the value and true if found, empty string and false if not found.
func (h *HookInput) GetStringArg(name string) (string, bool) {
	if h.toolArgs == nil {
		return "", false
	}

	value, ok := h.toolArgs[name]
	if !ok {
		return "", false
	}

	strValue, ok := value.(string)
	if !ok {
		return "", false
	}

	return strValue, true
}

// GetBoolArg retrieves a boolean argument from tool_input.
// Returns the value and true if found, false and false if not found.
func (h *HookInput) GetBoolArg(name string) (bool, bool) {
	if h.toolArgs == nil {
		return false, false
	}

	value, ok := h.toolArgs[name]
	if !ok {
		return false, false
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, false
	}

	return boolValue, true
}
