package hookify

import (
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"
)

// defaultFields maps each event to the input field a bare pattern matches
// against. Stop has no natural text field, so stop patterns match the whole
// input document unless the rule names a field.
var defaultFields = map[Event]string{
	EventPrompt:   "prompt",
	EventPreTool:  "tool_input.command",
	EventPostTool: "tool_response",
}

// matchPattern reports whether the rule's pattern matches the hook input.
// Rules without a pattern match unconditionally. A field that does not exist
// in the input never matches.
func matchPattern(rule *Rule, input *HookInput) (bool, error) {
	if rule.Pattern == "" {
		return true, nil
	}

	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return false, fmt.Errorf("invalid pattern: %w", err)
	}

	field := rule.Field
	if field == "" {
		field = defaultFields[rule.Event]
	}

	if field == "" {
		return re.Match(input.Raw()), nil
	}

	value := gjson.GetBytes(input.Raw(), field)
	if !value.Exists() {
		return false, nil
	}

	return re.MatchString(value.String()), nil
}
