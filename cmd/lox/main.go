package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/log"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "lox 0.1.0"

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	args, verbose := extractVerbose(args)
	level := os.Getenv(driver.LogLevelEnv)
	if verbose {
		level = "debug"
	}
	logger := driver.NewLogger(stderr, level)

	if len(args) == 0 {
		return runREPL(logger)
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return driver.ExitOK
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return driver.ExitOK
	case "repl":
		return runREPL(logger)
	case "run":
		return runEntry(args[1:], logger)
	case "test":
		return runTests(args[1:], logger)
	default:
		if strings.HasPrefix(args[0], "-") || len(args) > 1 {
			printUsage(stderr)
			return driver.ExitUsage
		}
		return runFile(args[0], logger)
	}
}

// extractVerbose removes -v/--verbose from anywhere in args.
func extractVerbose(args []string) ([]string, bool) {
	out := make([]string, 0, len(args))
	verbose := false
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			verbose = true
			continue
		}
		out = append(out, arg)
	}
	return out, verbose
}

func newSession(logger *log.Logger) *driver.Session {
	return driver.NewSession(driver.SessionOptions{
		Stdout:   stdout,
		Reporter: diag.NewWriterReporter(stderr),
		Logger:   logger,
	})
}

func runFile(path string, logger *log.Logger) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "lox: cannot read %s: %v\n", path, err)
		return driver.ExitNoInput
	}
	logger.Debug().Str("path", path).Int("bytes", len(src)).Msg("running script")
	return newSession(logger).Run(string(src)).ExitCode()
}

func runEntry(args []string, logger *log.Logger) int {
	if len(args) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return driver.ExitUsage
	}

	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		if len(args) == 1 && looksLikePathCandidate(args[0]) {
			fmt.Fprintf(stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
		} else {
			fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
			return driver.ExitDataErr
		}
		manifest = nil
	}

	if len(args) == 0 {
		if manifest == nil {
			fmt.Fprintf(stderr, "lox run requires a manifest target or source file (%s not found)\n", driver.ManifestFileName)
			return driver.ExitUsage
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(stderr, "manifest error: %v\n", err)
			return driver.ExitDataErr
		}
		entry, err := manifest.ResolveMain(target)
		if err != nil {
			fmt.Fprintf(stderr, "failed to resolve target entrypoint: %v\n", err)
			return driver.ExitDataErr
		}
		return runFile(entry, logger)
	}

	if manifest != nil {
		if target, ok := manifest.FindTarget(args[0]); ok {
			entry, err := manifest.ResolveMain(target)
			if err != nil {
				fmt.Fprintf(stderr, "failed to resolve target %q: %v\n", target.Name, err)
				return driver.ExitDataErr
			}
			return runFile(entry, logger)
		}
	}
	return runFile(args[0], logger)
}

func runTests(args []string, logger *log.Logger) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(stderr)
	parallel := fs.Int("p", 0, "number of fixtures to run concurrently (default from lox.yml, else 1)")
	if err := fs.Parse(args); err != nil {
		return driver.ExitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args()[1:], " "))
		return driver.ExitUsage
	}

	dir := "testdata"
	limit := 1
	if manifest, err := loadManifestFrom("."); err == nil {
		dir = manifest.FixtureDir()
		if manifest.Fixtures.Parallel > 0 {
			limit = manifest.Fixtures.Parallel
		}
	} else if !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return driver.ExitDataErr
	}
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}
	if *parallel > 0 {
		limit = *parallel
	}

	paths, err := driver.CollectFixtures(dir)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return driver.ExitNoInput
	}
	runner := driver.FixtureRunner{Parallel: limit, Logger: logger}
	results, err := runner.Run(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return driver.ExitNoInput
	}

	failed := 0
	for _, res := range results {
		if res.Passed {
			fmt.Fprintf(stdout, "PASS %s (%s)\n", res.Path, res.Elapsed)
			continue
		}
		failed++
		fmt.Fprintf(stdout, "FAIL %s\n", res.Path)
		for _, failure := range res.Failures {
			fmt.Fprintf(stdout, "    %s\n", failure)
		}
	}
	fmt.Fprintf(stdout, "%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return 1
	}
	return driver.ExitOK
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	manifestPath, err := driver.FindManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	// Support forward/backward slashes regardless of host OS.
	if strings.ContainsAny(arg, `/\`) || strings.Contains(arg, string(os.PathSeparator)) {
		return true
	}
	return filepath.Ext(arg) == ".lox" || strings.HasPrefix(arg, ".")
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lox                       start the REPL")
	fmt.Fprintln(w, "  lox <file.lox>            run a script")
	fmt.Fprintln(w, "  lox run [target|file]     run a lox.yml target or a script")
	fmt.Fprintln(w, "  lox test [-p N] [dir]     run annotated fixture scripts")
	fmt.Fprintln(w, "  lox version")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -v, --verbose             debug tracing on stderr (or LOX_LOG=debug)")
}
