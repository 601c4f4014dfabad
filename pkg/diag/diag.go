// Package diag carries diagnostics between the pipeline stages and the driver.
//
// Stages never print. The scanner, parser and resolver return a List that the
// caller hands to a Reporter; the interpreter returns a runtime error that the
// driver converts with Runtime.
package diag

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"lox/interpreter-go/pkg/token"
)

// Stage identifies the pipeline pass that produced a diagnostic.
type Stage int

const (
	StageScan Stage = iota
	StageParse
	StageResolve
	StageRuntime
)

func (s Stage) String() string {
	switch s {
	case StageScan:
		return "scan"
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("stage_%d", int(s))
	}
}

// Static reports whether the stage runs before any code executes.
func (s Stage) Static() bool {
	return s != StageRuntime
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Stage   Stage
	Line    int
	Where   string
	Message string
}

// At builds a static diagnostic located at tok, using the " at end" / " at 'x'"
// convention for the where clause.
func At(stage Stage, tok token.Token, message string) Diagnostic {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = " at end"
	}
	return Diagnostic{Stage: stage, Line: tok.Line, Where: where, Message: message}
}

// Runtime builds a runtime diagnostic for the token that triggered it.
func Runtime(tok token.Token, message string) Diagnostic {
	return Diagnostic{Stage: StageRuntime, Line: tok.Line, Message: message}
}

func (d Diagnostic) String() string {
	if d.Stage == StageRuntime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

func (d Diagnostic) Error() string {
	return d.String()
}

// List accumulates diagnostics in report order.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// HasErrors reports whether anything was recorded.
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Err joins the recorded diagnostics, or returns nil when empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Messages returns the rendered form of each diagnostic.
func (l List) Messages() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.String()
	}
	return out
}

// Reporter is the error-reporting collaborator implemented by front ends.
type Reporter interface {
	Report(d Diagnostic)
}

// WriterReporter renders each diagnostic on its own line.
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterReporter reports to w, usually os.Stderr.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, d.String())
}

// Collector keeps every reported diagnostic.
type Collector struct {
	mu    sync.Mutex
	items List
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of what has been collected so far.
func (c *Collector) Diagnostics() List {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(List, len(c.items))
	copy(out, c.items)
	return out
}

// Reset discards collected diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
