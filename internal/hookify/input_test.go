package hookify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHookInput(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPrompt string
		wantTool   string
		wantErr    bool
	}{
		{
			name:       "prompt submission payload",
			input:      `{"session_id": "abc", "hook_event_name": "UserPromptSubmit", "prompt": "hello"}`,
			wantPrompt: "hello",
		},
		{
			name:     "tool use payload",
			input:    `{"tool_name": "Bash", "tool_input": {"command": "ls -la"}}`,
			wantTool: "Bash",
		},
		{
			name:  "empty object",
			input: `{}`,
		},
		{
			name:  "unknown fields are kept in the raw document",
			input: `{"brand_new_field": 42}`,
		},
		{
			name:    "invalid JSON",
			input:   `not-json`,
			wantErr: true,
		},
		{
			name:    "valid JSON but not an object",
			input:   `[1, 2, 3]`,
			wantErr: true,
		},
		{
			name:    "invalid tool_input",
			input:   `{"tool_name": "Test", "tool_input": "not an object"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHookInput(strings.NewReader(tt.input))

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPrompt, got.Prompt)
			assert.Equal(t, tt.wantTool, got.ToolName)
			assert.JSONEq(t, tt.input, string(got.Raw()))
			assert.NotNil(t, got.Fields())
		})
	}
}

func TestHookInput_GetStringArg(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		argName   string
		wantValue string
		wantOk    bool
	}{
		{
			name:      "existing string argument",
			input:     `{"tool_name": "Bash", "tool_input": {"command": "ls -la"}}`,
			argName:   "command",
			wantValue: "ls -la",
			wantOk:    true,
		},
		{
			name:    "non-existent argument",
			input:   `{"tool_name": "Bash", "tool_input": {"command": "ls -la"}}`,
			argName: "nonexistent",
		},
		{
			name:    "non-string argument",
			input:   `{"tool_name": "Test", "tool_input": {"count": 123}}`,
			argName: "count",
		},
		{
			name:    "no tool_input",
			input:   `{"prompt": "hello"}`,
			argName: "command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseHookInput(strings.NewReader(tt.input))
			require.NoError(t, err)

			gotValue, gotOk := input.GetStringArg(tt.argName)
			assert.Equal(t, tt.wantValue, gotValue)
			assert.Equal(t, tt.wantOk, gotOk)
		})
	}
}

func TestHookInput_GetBoolArg(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		argName   string
		wantValue bool
		wantOk    bool
	}{
		{
			name:      "existing bool argument",
			input:     `{"tool_name": "Test", "tool_input": {"enabled": true}}`,
			argName:   "enabled",
			wantValue: true,
			wantOk:    true,
		},
		{
			name:    "non-bool argument",
			input:   `{"tool_name": "Test", "tool_input": {"name": "test"}}`,
			argName: "name",
		},
		{
			name:    "no tool_input",
			input:   `{"prompt": "hello"}`,
			argName: "enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseHookInput(strings.NewReader(tt.input))
			require.NoError(t, err)

			gotValue, gotOk := input.GetBoolArg(tt.argName)
			assert.Equal(t, tt.wantValue, gotValue)
			assert.Equal(t, tt.wantOk, gotOk)
		})
	}
}
