package hookify

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Event identifies the hook lifecycle point a rule applies to.
type Event string

const (
	EventPrompt   Event = "prompt"
	EventPreTool  Event = "pre-tool"
	EventPostTool Event = "post-tool"
	EventStop     Event = "stop"
)

// Action is what a matching rule does to the hook response.
type Action string

const (
	// ActionWarn appends the rule message to systemMessage.
	ActionWarn Action = "warn"
	// ActionBlock rejects the prompt or tool call with the rule message as reason.
	ActionBlock Action = "block"
	// ActionContext injects the rule message as additional context for Claude.
	ActionContext Action = "context"
	// ActionRun executes a shell command and injects its stdout as context.
	ActionRun Action = "run"
)

// Rule is one hookify rule, parsed from a markdown rule file.
// The YAML frontmatter defines when the rule fires; the markdown body is the
// message delivered when it does.
type Rule struct {
	// Name identifies the rule; defaults to the rule file's base name.
	Name string

	// Event selects the lifecycle event this rule applies to.
	Event Event

	// Action selects how a match is reported.
	Action Action

	// Pattern is an optional regular expression matched against Field.
	Pattern string

	// Field is a gjson path into the hook input the pattern matches against.
	// Empty means the event's default field.
	Field string

	// When is an optional CEL expression over the hook input.
	When string

	// Once suppresses the rule after its first match in a session.
	Once bool

	// Command is the shell command for ActionRun rules.
	Command string

	// Message is the markdown body of the rule file.
	Message string

	// Source is the path of the file the rule was parsed from.
	Source string

	// Enabled rules are the only ones loaded; defaults to true.
	Enabled bool
}

// frontmatter mirrors the YAML block at the top of a rule file.
type frontmatter struct {
	Name    string `yaml:"name,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty"`
	Event   string `yaml:"event"`
	Action  string `yaml:"action,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Field   string `yaml:"field,omitempty"`
	When    string `yaml:"when,omitempty"`
	Once    bool   `yaml:"once,omitempty"`
	Command string `yaml:"command,omitempty"`
}

const frontmatterDelimiter = "---"

// ParseRuleFile parses one markdown rule file into a Rule.
func ParseRuleFile(path string, data []byte) (*Rule, error) {
	meta, body, err := splitFrontmatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return nil, fmt.Errorf("%s: invalid frontmatter: %w", path, err)
	}

	rule := &Rule{
		Name:    fm.Name,
		Event:   Event(fm.Event),
		Action:  Action(fm.Action),
		Pattern: fm.Pattern,
		Field:   fm.Field,
		When:    fm.When,
		Once:    fm.Once,
		Command: fm.Command,
		Message: strings.TrimSpace(body),
		Source:  path,
		Enabled: fm.Enabled == nil || *fm.Enabled,
	}

	if rule.Name == "" {
		rule.Name = ruleNameFromPath(path)
	}
	if rule.Action == "" {
		rule.Action = ActionWarn
	}

	if err := validateRule(rule); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rule, nil
}

// validateRule checks the fields that do not need compilation.
// Pattern and condition compilation belong to the engine.
func validateRule(rule *Rule) error {
	switch rule.Event {
	case EventPrompt, EventPreTool, EventPostTool, EventStop:
	case "":
		return fmt.Errorf("rule %s: event is required", rule.Name)
	default:
		return fmt.Errorf("rule %s: unknown event %q", rule.Name, rule.Event)
	}

	switch rule.Action {
	case ActionWarn, ActionBlock, ActionContext:
		if rule.Message == "" {
			return fmt.Errorf("rule %s: message body is required for action %s", rule.Name, rule.Action)
		}
	case ActionRun:
		if rule.Command == "" {
			return fmt.Errorf("rule %s: command is required for action run", rule.Name)
		}
	default:
		return fmt.Errorf("rule %s: unknown action %q", rule.Name, rule.Action)
	}

	return nil
}

// splitFrontmatter separates the YAML frontmatter from the markdown body.
// The frontmatter is delimited by "---" lines, the first of which must be the
// first line of the file.
func splitFrontmatter(content string) (meta string, body string, err error) {
	content = strings.TrimPrefix(content, "\ufeff")

	first, rest, found := strings.Cut(content, "\n")
	if !found || strings.TrimRight(first, "\r") != frontmatterDelimiter {
		return "", "", fmt.Errorf("missing frontmatter")
	}

	offset := 0
	for {
		idx := strings.Index(rest[offset:], "\n"+frontmatterDelimiter)
		if idx < 0 {
			return "", "", fmt.Errorf("unterminated frontmatter")
		}
		idx += offset

		tail := rest[idx+1+len(frontmatterDelimiter):]
		switch {
		case tail == "" || tail == "\r":
			return rest[:idx], "", nil
		case strings.HasPrefix(tail, "\n"):
			return rest[:idx], tail[1:], nil
		case strings.HasPrefix(tail, "\r\n"):
			return rest[:idx], tail[2:], nil
		}

		// "---" occurred inside a frontmatter value; keep scanning.
		offset = idx + 1
	}
}

// ruleNameFromPath derives a rule name from its file name:
// "hookify.no-secrets.local.md" and "no-secrets.md" both become "no-secrets".
func ruleNameFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".md")
	name = strings.TrimSuffix(name, ".local")
	name = strings.TrimPrefix(name, "hookify.")
	return name
}
