// Package driver wires the pipeline stages together for the command line:
// sessions that keep state across runs, the lox.yml manifest, and the
// annotated-script fixture runner.
package driver

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/oarkflow/log"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/scanner"
)

// Process exit statuses.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitNoInput  = 66
	ExitSoftware = 70
)

var stderr io.Writer = os.Stderr

// SessionOptions configure a Session. Zero values fall back to os.Stdout, a
// reporter writing to os.Stderr and a silent logger.
type SessionOptions struct {
	Stdout   io.Writer
	Reporter diag.Reporter
	Logger   *log.Logger
}

// Session runs successive sources against one interpreter, so globals defined
// by one run are visible to the next.
type Session struct {
	interp   *interpreter.Interpreter
	ids      *ast.IDs
	reporter diag.Reporter
	logger   *log.Logger
}

// Result summarizes one Run.
type Result struct {
	HadError        bool
	HadRuntimeError bool
	Diagnostics     diag.List
}

// ExitCode maps a result to the conventional process status.
func (r Result) ExitCode() int {
	switch {
	case r.HadError:
		return ExitDataErr
	case r.HadRuntimeError:
		return ExitSoftware
	default:
		return ExitOK
	}
}

// NewSession creates a session with a fresh global environment.
func NewSession(opts SessionOptions) *Session {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NewWriterReporter(stderr)
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	return &Session{
		interp:   interpreter.New(opts.Stdout),
		ids:      &ast.IDs{},
		reporter: reporter,
		logger:   logger,
	}
}

// Run scans, parses, resolves and executes source. Static diagnostics from
// any stage prevent execution; every diagnostic is also sent to the reporter.
func (s *Session) Run(source string) Result {
	var result Result
	started := time.Now()

	tokens, scanDiags := scanner.Scan(source)
	program, parseDiags := parser.Parse(tokens, s.ids)
	s.logger.Debug().Str("stage", "parse").Int("tokens", len(tokens)).Int("statements", len(program)).
		Int("diagnostics", len(scanDiags)+len(parseDiags)).Dur("elapsed", time.Since(started)).Msg("front end finished")
	if s.report(&result, scanDiags, parseDiags) {
		return result
	}

	global := s.interp.GlobalEnvironment()
	res, resolveDiags := resolver.New(resolver.Options{
		KnownGlobal: func(name string) bool {
			_, err := global.Get(name)
			return err == nil
		},
	}).Resolve(program)
	s.logger.Debug().Str("stage", "resolve").Int("locals", len(res)).Int("diagnostics", len(resolveDiags)).Msg("resolved")
	if s.report(&result, resolveDiags) {
		return result
	}

	s.interp.Resolve(res)
	if err := s.interp.Interpret(program); err != nil {
		var d diag.Diagnostic
		var rtErr *interpreter.RuntimeError
		if errors.As(err, &rtErr) {
			d = rtErr.Diagnostic()
		} else {
			d = diag.Diagnostic{Stage: diag.StageRuntime, Message: err.Error()}
		}
		result.HadRuntimeError = true
		result.Diagnostics.Add(d)
		s.reporter.Report(d)
		s.logger.Debug().Str("stage", "interpret").Err(err).Msg("runtime error")
	}
	s.logger.Debug().Dur("elapsed", time.Since(started)).Bool("ok", result.ExitCode() == ExitOK).Msg("run finished")
	return result
}

func (s *Session) report(result *Result, lists ...diag.List) bool {
	for _, list := range lists {
		for _, d := range list {
			result.HadError = true
			result.Diagnostics.Add(d)
			s.reporter.Report(d)
		}
	}
	return result.HadError
}
