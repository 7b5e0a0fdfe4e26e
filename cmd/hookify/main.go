package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hookify/hookify/internal/command"
	"github.com/hookify/hookify/internal/hookify"
	"github.com/hookify/hookify/internal/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hookify",
		Short: "Markdown-defined hooks for Claude Code",
		Long: `Hookify evaluates rules defined in markdown files against Claude Code
lifecycle events. Rules live in .claude/hookify.*.local.md in the project and
in the plugin's rules directory, and can warn, block, or inject context.`,
	}

	rootCmd.AddCommand(
		newHookCmd("user-prompt-submit", "Evaluate prompt rules on UserPromptSubmit", hookify.EventPrompt),
		newHookCmd("pre-tool-use", "Evaluate tool rules on PreToolUse", hookify.EventPreTool),
		newHookCmd("post-tool-use", "Evaluate tool result rules on PostToolUse", hookify.EventPostTool),
		newHookCmd("stop", "Evaluate stop rules on Stop", hookify.EventStop),
		newListCmd(),
		newValidateCmd(),
	)

	return rootCmd
}

// newHookCmd builds a host-invoked hook subcommand. Hook commands follow a
// strict contract: one JSON document in on stdin, one JSON document out on
// stdout, exit code 0 on every path. Errors surface only inside the output
// payload, never through the exit status.
func newHookCmd(use, short string, event hookify.Event) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + `. Reads the hook input JSON from stdin, writes the hook response JSON to stdout, and always exits 0.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			loader := hookify.NewLoader()
			tracker := state.NewTracker(loader.ProjectDir())

			engine, err := hookify.NewEngine(command.NewRunner(), tracker)
			if err != nil {
				hookify.EmitFailure(cmd.OutOrStdout(), err)
				return
			}

			runner := hookify.NewRunner(loader, engine)
			runner.Run(cmd.Context(), event, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered rules",
		Long:  `Discovers all rule files in the project and plugin locations and prints one line per rule.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := hookify.NewLoader()
			rules, err := loader.LoadAll()
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEVENT\tACTION\tENABLED\tSOURCE")
			for _, rule := range rules {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", rule.Name, rule.Event, rule.Action, rule.Enabled, rule.Source)
			}
			return w.Flush()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate all rule files",
		Long:  `Parses every discovered rule file and compiles its pattern and condition, reporting any problems. Exits non-zero when a rule file is invalid.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := hookify.NewLoader()
			files, err := loader.Discover()
			if err != nil {
				return fmt.Errorf("failed to discover rule files: %w", err)
			}

			engine, err := hookify.NewEngine(nil, nil)
			if err != nil {
				return fmt.Errorf("failed to create engine: %w", err)
			}

			invalid := 0
			for _, file := range files {
				if err := validateFile(engine, file); err != nil {
					invalid++
					fmt.Fprintf(cmd.OutOrStdout(), "INVALID  %s: %v\n", file, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK       %s\n", file)
			}

			if invalid > 0 {
				return fmt.Errorf("%d invalid rule file(s)", invalid)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d rule file(s) valid\n", len(files))
			return nil
		},
	}
}

func validateFile(engine *hookify.Engine, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	rule, err := hookify.ParseRuleFile(file, data)
	if err != nil {
		return err
	}

	return engine.CheckRule(rule)
}
