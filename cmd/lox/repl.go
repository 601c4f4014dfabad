package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/log"
	"github.com/peterh/liner"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/scanner"
	"lox/interpreter-go/pkg/token"
)

const (
	historyEnv  = "LOX_HISTORY"
	historyFile = ".lox_history"
)

type replSettings struct {
	prompt       string
	continuation string
	history      string
}

// loadReplSettings reads lox.yml when one is in scope; LOX_HISTORY overrides
// the history location.
func loadReplSettings(logger *log.Logger) replSettings {
	settings := replSettings{prompt: "> ", continuation: "... "}
	if home, err := os.UserHomeDir(); err == nil {
		settings.history = filepath.Join(home, historyFile)
	}
	manifest, err := loadManifestFrom(".")
	switch {
	case err == nil:
		settings.prompt = manifest.REPL.Prompt
		settings.continuation = manifest.REPL.Continuation
		if manifest.REPL.History != "" {
			settings.history = manifest.REPL.History
			if !filepath.IsAbs(settings.history) {
				settings.history = filepath.Join(filepath.Dir(manifest.Path), settings.history)
			}
		}
	case !errors.Is(err, driver.ErrManifestNotFound):
		logger.Warn().Err(err).Msg("ignoring unreadable manifest")
	}
	if env := strings.TrimSpace(os.Getenv(historyEnv)); env != "" {
		settings.history = env
	}
	return settings
}

func runREPL(logger *log.Logger) int {
	settings := loadReplSettings(logger)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if settings.history != "" {
		if f, err := os.Open(settings.history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(settings.history); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	session := newSession(logger)
	for {
		src, ok := readChunk(ln, settings)
		if !ok {
			fmt.Fprintln(stdout)
			return driver.ExitOK
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		// Errors are already reported; the prompt keeps going either way.
		session.Run(src)
	}
}

// prompter is the part of *liner.State the reader needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readChunk reads one line, plus continuation lines while the input is
// incomplete. Ctrl-C discards the pending input.
func readChunk(p prompter, settings replSettings) (string, bool) {
	var b strings.Builder
	for {
		prompt := settings.prompt
		if b.Len() > 0 {
			prompt = settings.continuation
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMoreInput(b.String()) {
			return b.String(), true
		}
	}
}

// needsMoreInput reports whether src has unclosed braces or parentheses or
// an unterminated string.
func needsMoreInput(src string) bool {
	tokens, diags := scanner.Scan(src)
	for _, d := range diags {
		if d.Message == "Unterminated string." {
			return true
		}
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LeftBrace, token.LeftParen:
			depth++
		case token.RightBrace, token.RightParen:
			depth--
		}
	}
	return depth > 0
}
