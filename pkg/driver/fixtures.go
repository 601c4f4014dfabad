package driver

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/oarkflow/log"
	"golang.org/x/sync/errgroup"

	"lox/interpreter-go/pkg/diag"
)

// Expectations are read from comments in a fixture script:
//
//	print 1; // expect: 1
//	1 = 2;   // error: Error at '=': Invalid assignment target.
//	nil();   // expect runtime error: Can only call functions and classes.
//
// Static errors and runtime errors take their line from the comment's line
// unless the text already starts with "[line N]".
type Expectations struct {
	Output       []string
	Errors       []string
	RuntimeError string
}

// ExitCode is the status a run matching these expectations produces.
func (e Expectations) ExitCode() int {
	switch {
	case len(e.Errors) > 0:
		return ExitDataErr
	case e.RuntimeError != "":
		return ExitSoftware
	default:
		return ExitOK
	}
}

var (
	expectOutputPattern  = regexp.MustCompile(`// expect: ?(.*)$`)
	expectRuntimePattern = regexp.MustCompile(`// expect runtime error: (.+)$`)
	expectErrorPattern   = regexp.MustCompile(`// error: (.+)$`)
	explicitLinePattern  = regexp.MustCompile(`^\[line \d+\]`)
)

// ParseExpectations extracts annotations from source.
func ParseExpectations(source string) Expectations {
	var exp Expectations
	for idx, text := range strings.Split(source, "\n") {
		line := idx + 1
		text = strings.TrimRight(text, "\r")
		if m := expectOutputPattern.FindStringSubmatch(text); m != nil {
			exp.Output = append(exp.Output, m[1])
			continue
		}
		if m := expectRuntimePattern.FindStringSubmatch(text); m != nil {
			exp.RuntimeError = fmt.Sprintf("%s\n[line %d]", m[1], line)
			continue
		}
		if m := expectErrorPattern.FindStringSubmatch(text); m != nil {
			msg := m[1]
			if !explicitLinePattern.MatchString(msg) {
				msg = fmt.Sprintf("[line %d] %s", line, msg)
			}
			exp.Errors = append(exp.Errors, msg)
		}
	}
	return exp
}

// FixtureResult is the outcome of one fixture script.
type FixtureResult struct {
	Path     string
	Passed   bool
	Failures []string
	Elapsed  time.Duration
}

// RunFixture executes the script at path in a fresh session and compares it
// against its annotations. An error means the script could not be read.
func RunFixture(path string) (FixtureResult, error) {
	result := FixtureResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("fixture %s: %w", path, err)
	}
	started := time.Now()
	source := string(data)
	exp := ParseExpectations(source)

	var stdout bytes.Buffer
	collector := &diag.Collector{}
	session := NewSession(SessionOptions{Stdout: &stdout, Reporter: collector})
	run := session.Run(source)
	result.Elapsed = time.Since(started)

	result.Failures = compareFixture(exp, splitOutput(stdout.String()), collector.Diagnostics(), run.ExitCode())
	result.Passed = len(result.Failures) == 0
	return result, nil
}

func splitOutput(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func compareFixture(exp Expectations, output []string, diags diag.List, exitCode int) []string {
	var failures []string
	for i := 0; i < len(exp.Output) || i < len(output); i++ {
		switch {
		case i >= len(output):
			failures = append(failures, fmt.Sprintf("missing output line %d: %q", i+1, exp.Output[i]))
		case i >= len(exp.Output):
			failures = append(failures, fmt.Sprintf("unexpected output line %d: %q", i+1, output[i]))
		case output[i] != exp.Output[i]:
			failures = append(failures, fmt.Sprintf("output line %d: got %q, want %q", i+1, output[i], exp.Output[i]))
		}
	}

	var static []string
	var runtimeErr string
	for _, d := range diags {
		if d.Stage.Static() {
			static = append(static, d.String())
		} else {
			runtimeErr = d.String()
		}
	}
	expectedErrors := make(map[string]int, len(exp.Errors))
	for _, e := range exp.Errors {
		expectedErrors[e]++
	}
	for _, got := range static {
		if expectedErrors[got] > 0 {
			expectedErrors[got]--
			continue
		}
		failures = append(failures, fmt.Sprintf("unexpected error: %s", got))
	}
	missing := make([]string, 0)
	for e, n := range expectedErrors {
		for ; n > 0; n-- {
			missing = append(missing, e)
		}
	}
	sort.Strings(missing)
	for _, e := range missing {
		failures = append(failures, fmt.Sprintf("missing error: %s", e))
	}

	if runtimeErr != exp.RuntimeError {
		failures = append(failures, fmt.Sprintf("runtime error: got %q, want %q", runtimeErr, exp.RuntimeError))
	}
	if want := exp.ExitCode(); exitCode != want {
		failures = append(failures, fmt.Sprintf("exit code: got %d, want %d", exitCode, want))
	}
	return failures
}

// CollectFixtures returns every .lox file under dir in lexical order.
func CollectFixtures(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".lox" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect fixtures in %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// FixtureRunner runs fixtures concurrently, each in its own session.
type FixtureRunner struct {
	// Parallel bounds concurrent fixtures; values below 1 mean one at a time.
	Parallel int
	Logger   *log.Logger
}

// RunFixtures is shorthand for a FixtureRunner without logging.
func RunFixtures(ctx context.Context, paths []string, parallel int) ([]FixtureResult, error) {
	return FixtureRunner{Parallel: parallel}.Run(ctx, paths)
}

// Run executes paths and returns results in input order. It stops at the
// first unreadable fixture or when ctx is cancelled.
func (r FixtureRunner) Run(ctx context.Context, paths []string) ([]FixtureResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = discardLogger()
	}
	limit := r.Parallel
	if limit < 1 {
		limit = 1
	}

	results := make([]FixtureResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path // per-iteration copies for go < 1.22 loop semantics
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := RunFixture(path)
			if err != nil {
				return err
			}
			results[i] = res
			logger.Debug().Str("fixture", path).Bool("passed", res.Passed).Dur("elapsed", res.Elapsed).Msg("fixture finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
