package hookify

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"

	"github.com/hookify/hookify/internal/command"
)

// celCostLimit bounds condition evaluation so a pathological expression
// cannot stall a hook invocation.
const celCostLimit = 1_000_000

// FiredTracker records which once-rules already fired in a session.
type FiredTracker interface {
	// HasFired reports whether the rule already fired in the session.
	HasFired(sessionID, ruleName string) bool

	// MarkFired records that the rule fired in the session.
	MarkFired(sessionID, ruleName string) error
}

// Engine evaluates hookify rules against a hook input.
type Engine struct {
	env    *cel.Env
	runner command.Runner
	state  FiredTracker
}

// NewEngine creates an engine. The runner backs run-action rules and the
// tracker backs once-rules; either may be nil to disable the feature.
func NewEngine(runner command.Runner, state FiredTracker) (*Engine, error) {
	// Conditions see the whole input document as a dynamically typed map.
	env, err := cel.NewEnv(
		cel.Variable("input", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:    env,
		runner: runner,
		state:  state,
	}, nil
}

// EvaluateRules evaluates all rules against the hook input and merges their
// outcomes into a single response. The first blocking rule wins and stops
// evaluation; warn and context messages accumulate.
func (e *Engine) EvaluateRules(ctx context.Context, rules []*Rule, input *HookInput) (*Response, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	var event Event
	if len(rules) > 0 {
		event = rules[0].Event
	}
	response := NewResponse(event)

	for _, rule := range rules {
		matched, err := e.matches(rule, input)
		if err != nil {
			return nil, fmt.Errorf("rule %s failed: %w", rule.Name, err)
		}
		if !matched {
			continue
		}

		if rule.Once && e.state != nil {
			if e.state.HasFired(input.SessionID, rule.Name) {
				continue
			}
			// State is best effort; a tracking failure must not fail the hook.
			_ = e.state.MarkFired(input.SessionID, rule.Name)
		}

		switch rule.Action {
		case ActionBlock:
			response.Block(rule.Message)
			return response, nil
		case ActionWarn:
			response.AddSystemMessage(rule.Message)
		case ActionContext:
			response.AddContext(rule.Message)
		case ActionRun:
			output, err := e.runCommand(ctx, rule, input)
			if err != nil {
				return nil, fmt.Errorf("rule %s failed: %w", rule.Name, err)
			}
			response.AddContext(output)
		}
	}

	return response, nil
}

// CheckRule compiles the rule's pattern and condition without evaluating
// them. Used by the validate command.
func (e *Engine) CheckRule(rule *Rule) error {
	if rule.Pattern != "" {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("rule %s: invalid pattern: %w", rule.Name, err)
		}
	}

	if rule.When != "" {
		if _, issues := e.env.Compile(rule.When); issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s: invalid condition: %w", rule.Name, issues.Err())
		}
	}

	return nil
}

// matches applies the rule's pattern and condition; both must pass.
func (e *Engine) matches(rule *Rule, input *HookInput) (bool, error) {
	matched, err := matchPattern(rule, input)
	if err != nil || !matched {
		return false, err
	}

	return e.evalCondition(rule, input)
}

// evalCondition evaluates the rule's CEL condition against the input.
// Rules without a condition match unconditionally; a non-boolean result is
// treated as no match.
func (e *Engine) evalCondition(rule *Rule, input *HookInput) (bool, error) {
	if rule.When == "" {
		return true, nil
	}

	ast, issues := e.env.Compile(rule.When)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("invalid condition: %w", issues.Err())
	}

	program, err := e.env.Program(ast, cel.CostLimit(celCostLimit))
	if err != nil {
		return false, fmt.Errorf("failed to build condition program: %w", err)
	}

	out, _, err := program.Eval(map[string]interface{}{
		"input": input.Fields(),
	})
	if err != nil {
		return false, fmt.Errorf("condition evaluation failed: %w", err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, nil
	}

	return matched, nil
}

// runCommand executes a run-action rule's command in the host project
// directory and returns its stdout.
func (e *Engine) runCommand(ctx context.Context, rule *Rule, input *HookInput) (string, error) {
	if e.runner == nil {
		return "", fmt.Errorf("run actions are not available")
	}

	stdout, stderr, err := e.runner.RunInDir(ctx, input.CWD, rule.Command)
	if err != nil {
		return "", fmt.Errorf("command failed: %w (stderr: %s)", err, stderr)
	}

	return stdout, nil
}
