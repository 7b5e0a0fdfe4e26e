package hookify

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// EnvPluginRoot overrides the inferred plugin root directory.
	EnvPluginRoot = "CLAUDE_PLUGIN_ROOT"
	// EnvProjectDir overrides the project directory (defaults to cwd).
	EnvProjectDir = "CLAUDE_PROJECT_DIR"

	projectRuleGlob = "hookify.*.local.md"
	pluginRulesDir  = "rules"
)

// ErrNoRuleSource indicates that neither a project rule directory nor a
// plugin root could be resolved. The adapter degrades silently in that case.
var ErrNoRuleSource = errors.New("no rule source found")

// Loader discovers and parses hookify rule files. Rules come from two
// locations: the project's .claude directory (hookify.*.local.md) and the
// plugin root's rules directory (*.md).
type Loader struct {
	pluginRoot string
	projectDir string
	log        *slog.Logger
}

// NewLoader resolves rule locations from the environment. The plugin root
// comes from CLAUDE_PLUGIN_ROOT, falling back to two directory levels up
// from the running executable; the project directory comes from
// CLAUDE_PROJECT_DIR, falling back to the working directory.
func NewLoader() *Loader {
	pluginRoot := os.Getenv(EnvPluginRoot)
	if pluginRoot == "" {
		if exe, err := os.Executable(); err == nil {
			pluginRoot = filepath.Dir(filepath.Dir(exe))
		}
	}

	projectDir := os.Getenv(EnvProjectDir)
	if projectDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			projectDir = cwd
		}
	}

	return NewLoaderAt(pluginRoot, projectDir)
}

// NewLoaderAt creates a loader with explicit rule locations.
// Either location may be empty; it is then skipped during discovery.
func NewLoaderAt(pluginRoot, projectDir string) *Loader {
	return &Loader{
		pluginRoot: pluginRoot,
		projectDir: projectDir,
		log:        debugLogger(),
	}
}

// PluginRoot returns the resolved plugin root directory.
func (l *Loader) PluginRoot() string {
	return l.pluginRoot
}

// ProjectDir returns the resolved project directory.
func (l *Loader) ProjectDir() string {
	return l.projectDir
}

// Discover returns the paths of all candidate rule files, project rules
// first. It returns ErrNoRuleSource when no rule location exists at all.
func (l *Loader) Discover() ([]string, error) {
	type ruleSource struct {
		dir  string
		glob string
	}

	var sources []ruleSource
	if l.projectDir != "" {
		sources = append(sources, ruleSource{filepath.Join(l.projectDir, ".claude"), projectRuleGlob})
	}
	if l.pluginRoot != "" {
		sources = append(sources, ruleSource{filepath.Join(l.pluginRoot, pluginRulesDir), "*.md"})
	}

	var files []string
	found := false
	for _, d := range sources {
		if info, err := os.Stat(d.dir); err != nil || !info.IsDir() {
			continue
		}
		found = true

		// The pattern contains no magic characters that could make Glob fail.
		matches, _ := filepath.Glob(filepath.Join(d.dir, d.glob))
		files = append(files, matches...)
	}

	if !found {
		return nil, ErrNoRuleSource
	}

	return files, nil
}

// LoadAll parses every discovered rule file. Files that fail to parse are
// skipped: one broken rule file must not take down the whole hook.
func (l *Loader) LoadAll() ([]*Rule, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			l.log.Debug("skipping unreadable rule file", "file", file, "error", err)
			continue
		}

		rule, err := ParseRuleFile(file, data)
		if err != nil {
			l.log.Debug("skipping invalid rule file", "file", file, "error", err)
			continue
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

// LoadRules returns the enabled rules applicable to the given event.
func (l *Loader) LoadRules(event Event) ([]*Rule, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(all))
	for _, rule := range all {
		if rule.Enabled && rule.Event == event {
			rules = append(rules, rule)
		}
	}

	return rules, nil
}
