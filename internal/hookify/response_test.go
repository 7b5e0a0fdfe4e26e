package hookify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Response
		wantJSON string
	}{
		{
			name:     "empty response",
			build:    func() *Response { return NewResponse(EventPrompt) },
			wantJSON: `{}`,
		},
		{
			name: "system messages join with newlines",
			build: func() *Response {
				r := NewResponse(EventPrompt)
				r.AddSystemMessage("one")
				r.AddSystemMessage("two")
				return r
			},
			wantJSON: `{"systemMessage": "one\ntwo"}`,
		},
		{
			name: "context carries the host event name",
			build: func() *Response {
				r := NewResponse(EventPrompt)
				r.AddContext("background")
				return r
			},
			wantJSON: `{"hookSpecificOutput": {"hookEventName": "UserPromptSubmit", "additionalContext": "background"}}`,
		},
		{
			name: "prompt block",
			build: func() *Response {
				r := NewResponse(EventPrompt)
				r.Block("not allowed")
				return r
			},
			wantJSON: `{"decision": "block", "reason": "not allowed"}`,
		},
		{
			name: "stop block",
			build: func() *Response {
				r := NewResponse(EventStop)
				r.Block("keep going")
				return r
			},
			wantJSON: `{"decision": "block", "reason": "keep going"}`,
		},
		{
			name: "pre-tool block",
			build: func() *Response {
				r := NewResponse(EventPreTool)
				r.Block("denied")
				return r
			},
			wantJSON: `{"hookSpecificOutput": {"hookEventName": "PreToolUse", "permissionDecision": "deny", "permissionDecisionReason": "denied"}}`,
		},
		{
			name: "first block reason wins",
			build: func() *Response {
				r := NewResponse(EventPrompt)
				r.Block("first")
				r.Block("second")
				return r
			},
			wantJSON: `{"decision": "block", "reason": "first"}`,
		},
		{
			name: "block and warning together",
			build: func() *Response {
				r := NewResponse(EventPrompt)
				r.AddSystemMessage("heads up")
				r.Block("stop")
				return r
			},
			wantJSON: `{"decision": "block", "reason": "stop", "systemMessage": "heads up"}`,
		},
		{
			name: "empty messages are ignored",
			build: func() *Response {
				r := NewResponse(EventPrompt)
				r.AddSystemMessage("")
				r.AddContext("")
				return r
			},
			wantJSON: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.build())

			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(data))
		})
	}
}

func TestResponse_Empty(t *testing.T) {
	r := NewResponse(EventPrompt)
	assert.True(t, r.Empty())

	r.AddSystemMessage("message")
	assert.False(t, r.Empty())

	blocked := NewResponse(EventPrompt)
	blocked.Block("reason")
	assert.False(t, blocked.Empty())
	assert.True(t, blocked.Blocked())
}
