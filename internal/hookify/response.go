package hookify

import (
	"encoding/json"
	"strings"
)

// hostEventNames maps loader events to the hookEventName values the host
// expects inside hookSpecificOutput.
var hostEventNames = map[Event]string{
	EventPrompt:   "UserPromptSubmit",
	EventPreTool:  "PreToolUse",
	EventPostTool: "PostToolUse",
	EventStop:     "Stop",
}

// Response accumulates rule outcomes for one hook invocation and serializes
// into the JSON document the host expects. A response with no outcomes
// serializes to {}.
type Response struct {
	event          Event
	blocked        bool
	reason         string
	systemMessages []string
	contexts       []string
}

// NewResponse creates an empty response for the given event.
func NewResponse(event Event) *Response {
	return &Response{event: event}
}

// Block marks the response as blocking with the given reason.
// The first reason wins; later calls are ignored.
func (r *Response) Block(reason string) {
	if r.blocked {
		return
	}
	r.blocked = true
	r.reason = reason
}

// Blocked reports whether a block action fired.
func (r *Response) Blocked() bool {
	return r.blocked
}

// AddSystemMessage appends a user-visible message.
func (r *Response) AddSystemMessage(message string) {
	if message == "" {
		return
	}
	r.systemMessages = append(r.systemMessages, message)
}

// AddContext appends context injected for Claude.
func (r *Response) AddContext(context string) {
	if context == "" {
		return
	}
	r.contexts = append(r.contexts, context)
}

// Empty reports whether the response carries no outcome at all.
func (r *Response) Empty() bool {
	return !r.blocked && len(r.systemMessages) == 0 && len(r.contexts) == 0
}

type hookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

type responseJSON struct {
	Decision           string              `json:"decision,omitempty"`
	Reason             string              `json:"reason,omitempty"`
	SystemMessage      string              `json:"systemMessage,omitempty"`
	HookSpecificOutput *hookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// MarshalJSON implements the host's hook output schema. Multiple messages of
// the same kind are joined with newlines. Blocks are expressed as a
// permission denial for pre-tool events and as a decision for the others.
func (r *Response) MarshalJSON() ([]byte, error) {
	out := responseJSON{
		SystemMessage: strings.Join(r.systemMessages, "\n"),
	}

	var specific hookSpecificOutput
	if len(r.contexts) > 0 {
		specific.AdditionalContext = strings.Join(r.contexts, "\n")
	}

	if r.blocked {
		if r.event == EventPreTool {
			specific.PermissionDecision = "deny"
			specific.PermissionDecisionReason = r.reason
		} else {
			out.Decision = "block"
			out.Reason = r.reason
		}
	}

	if specific.AdditionalContext != "" || specific.PermissionDecision != "" {
		specific.HookEventName = hostEventNames[r.event]
		out.HookSpecificOutput = &specific
	}

	return json.Marshal(out)
}
