package hookify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// EnvDebug enables diagnostic logging to stderr when set. Hooks own stdout,
// so diagnostics never go there.
const EnvDebug = "HOOKIFY_DEBUG"

// errorMessagePrefix prefixes every user-visible failure message.
const errorMessagePrefix = "Hookify error: "

// RuleLoader supplies the rules for an event.
type RuleLoader interface {
	LoadRules(event Event) ([]*Rule, error)
}

// Evaluator evaluates rules against a hook input.
type Evaluator interface {
	EvaluateRules(ctx context.Context, rules []*Rule, input *HookInput) (*Response, error)
}

type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeDegraded
	outcomeFailed
)

// Outcome is the terminal result of one hook invocation. Exactly one variant
// applies: Success carries the evaluator's response, Degraded means no rule
// source exists, Failed carries a user-visible message. Every variant maps
// to a JSON payload on stdout and exit code 0.
type Outcome struct {
	kind     outcomeKind
	response *Response
	message  string
}

// Success wraps the evaluator's response.
func Success(response *Response) Outcome {
	return Outcome{kind: outcomeSuccess, response: response}
}

// Degraded is the silent no-rule-source outcome; its payload is {}.
func Degraded() Outcome {
	return Outcome{kind: outcomeDegraded}
}

// Failed converts an error into a user-visible but non-fatal outcome.
func Failed(err error) Outcome {
	return Outcome{kind: outcomeFailed, message: errorMessagePrefix + err.Error()}
}

// Payload returns the JSON document to write to stdout. It cannot fail: a
// response that does not serialize degrades to an error payload, and an
// error payload that does not serialize degrades to {}.
func (o Outcome) Payload() []byte {
	switch o.kind {
	case outcomeDegraded:
		return []byte("{}")
	case outcomeFailed:
		data, err := json.Marshal(map[string]string{"systemMessage": o.message})
		if err != nil {
			return []byte("{}")
		}
		return data
	default:
		data, err := json.Marshal(o.response)
		if err != nil {
			return Failed(fmt.Errorf("failed to serialize response: %w", err)).Payload()
		}
		return data
	}
}

// Runner executes one hook invocation end to end.
type Runner struct {
	loader    RuleLoader
	evaluator Evaluator
	log       *slog.Logger
}

// NewRunner creates a runner over the given loader and evaluator.
func NewRunner(loader RuleLoader, evaluator Evaluator) *Runner {
	return &Runner{
		loader:    loader,
		evaluator: evaluator,
		log:       debugLogger(),
	}
}

// Run reads one JSON document from stdin, evaluates the event's rules, and
// writes exactly one JSON document to stdout. It never fails: every error
// becomes part of the output payload, and the returned exit code is 0 on
// every path, including output write failures.
func (r *Runner) Run(ctx context.Context, event Event, stdin io.Reader, stdout io.Writer) int {
	outcome := r.run(ctx, event, stdin)

	// Output emission is best effort; a write failure must not change the
	// exit code.
	if _, err := fmt.Fprintln(stdout, string(outcome.Payload())); err != nil {
		r.log.Debug("failed to write output", "error", err)
	}

	return 0
}

func (r *Runner) run(ctx context.Context, event Event, stdin io.Reader) Outcome {
	rules, err := r.loader.LoadRules(event)
	if err != nil {
		// A missing rule source degrades silently: surfacing an installation
		// problem on every hook invocation would drown the user in noise.
		if errors.Is(err, ErrNoRuleSource) {
			r.log.Debug("no rule source", "event", event)
			return Degraded()
		}
		return Failed(err)
	}

	input, err := ParseHookInput(stdin)
	if err != nil {
		return Failed(err)
	}

	response, err := r.evaluator.EvaluateRules(ctx, rules, input)
	if err != nil {
		return Failed(err)
	}

	r.log.Debug("evaluated rules", "event", event, "rules", len(rules), "empty", response.Empty())
	return Success(response)
}

// EmitFailure writes a Failed outcome for err to the writer. Used by hook
// commands when the runner itself cannot be constructed.
func EmitFailure(stdout io.Writer, err error) {
	fmt.Fprintln(stdout, string(Failed(err).Payload()))
}

// debugLogger returns a stderr logger when HOOKIFY_DEBUG is set and a
// discard logger otherwise.
func debugLogger() *slog.Logger {
	if os.Getenv(EnvDebug) == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
