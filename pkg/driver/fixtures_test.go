package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseExpectations(t *testing.T) {
	source := strings.Join([]string{
		`print 1; // expect: 1`,
		`print ""; // expect: `,
		`1 = 2; // error: Error at '=': Invalid assignment target.`,
		`// error: [line 9] Error at end: Expect ';' after value.`,
		`nil(); // expect runtime error: Can only call functions and classes.`,
	}, "\n")
	exp := ParseExpectations(source)
	want := Expectations{
		Output: []string{"1", ""},
		Errors: []string{
			"[line 3] Error at '=': Invalid assignment target.",
			"[line 9] Error at end: Expect ';' after value.",
		},
		RuntimeError: "Can only call functions and classes.\n[line 5]",
	}
	if diff := cmp.Diff(want, exp); diff != "" {
		t.Fatalf("expectations mismatch (-want +got):\n%s", diff)
	}
	if exp.ExitCode() != ExitDataErr {
		t.Fatalf("static errors take precedence, got %d", exp.ExitCode())
	}
}

func TestFixturesInTestdata(t *testing.T) {
	paths, err := CollectFixtures("testdata")
	if err != nil {
		t.Fatalf("CollectFixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures found")
	}
	results, err := RunFixtures(context.Background(), paths, 4)
	if err != nil {
		t.Fatalf("RunFixtures: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("result %d out of order: %s vs %s", i, res.Path, paths[i])
		}
		if !res.Passed {
			t.Errorf("%s failed:\n  %s", res.Path, strings.Join(res.Failures, "\n  "))
		}
	}
}

func TestRunFixtureReportsMismatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wrong.lox")
	source := "print 1; // expect: 2\nprint 3;\n"
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res, err := RunFixture(path)
	if err != nil {
		t.Fatalf("RunFixture: %v", err)
	}
	want := []string{
		`output line 1: got "1", want "2"`,
		`unexpected output line 2: "3"`,
	}
	if res.Passed {
		t.Fatalf("expected failure")
	}
	if diff := cmp.Diff(want, res.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFixtureMissingDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.lox")
	source := "print 1; // error: Error at 'x': never reported.\n// expect: 1\n"
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	res, err := RunFixture(path)
	if err != nil {
		t.Fatalf("RunFixture: %v", err)
	}
	want := []string{
		"missing error: [line 1] Error at 'x': never reported.",
		"exit code: got 0, want 65",
	}
	if diff := cmp.Diff(want, res.Failures); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFixturesUnreadable(t *testing.T) {
	_, err := RunFixtures(context.Background(), []string{filepath.Join(t.TempDir(), "nope.lox")}, 2)
	if err == nil {
		t.Fatalf("expected error for unreadable fixture")
	}
}

func TestRunFixturesCancelled(t *testing.T) {
	paths, err := CollectFixtures("testdata")
	if err != nil {
		t.Fatalf("CollectFixtures: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunFixtures(ctx, paths, 1); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
