package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file looked up by FindManifest.
const ManifestFileName = "lox.yml"

const (
	defaultPrompt       = "> "
	defaultContinuation = "... "
	defaultFixtureDir   = "testdata"
)

// ErrManifestNotFound is returned when no lox.yml exists at or above a directory.
var ErrManifestNotFound = errors.New("lox.yml not found")

// ErrNoTargets is returned when a manifest declares no runnable target.
var ErrNoTargets = errors.New("manifest: no targets defined")

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Targets     map[string]*TargetSpec
	TargetOrder []string
	REPL        REPLConfig
	Fixtures    FixtureConfig
}

// TargetSpec names a script that `lox run <target>` executes.
type TargetSpec struct {
	Name string
	Main string
}

// REPLConfig tunes the interactive prompt.
type REPLConfig struct {
	Prompt       string
	Continuation string
	History      string
}

// FixtureConfig tunes `lox test`.
type FixtureConfig struct {
	Dir      string
	Parallel int
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start towards the filesystem root and returns the
// first lox.yml it finds.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", name))
		} else if filepath.Ext(target.Main) != ".lox" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q main %q must be a .lox file", name, target.Main))
		}
	}
	if m.Fixtures.Parallel < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("fixtures.parallel must not be negative (got %d)", m.Fixtures.Parallel))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil || len(m.TargetOrder) == 0 {
		return nil, ErrNoTargets
	}
	return m.Targets[m.TargetOrder[0]], nil
}

// FindTarget looks up a target by name, ignoring case.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if target, ok := m.Targets[name]; ok {
		return target, true
	}
	for _, key := range m.TargetOrder {
		if strings.EqualFold(key, name) {
			return m.Targets[key], true
		}
	}
	return nil, false
}

// ResolveMain returns the target's script path, relative paths being taken
// from the manifest's directory.
func (m *Manifest) ResolveMain(target *TargetSpec) (string, error) {
	if m == nil || target == nil {
		return "", fmt.Errorf("missing manifest or target")
	}
	return m.resolvePath(target.Main), nil
}

// FixtureDir returns the absolute fixture directory.
func (m *Manifest) FixtureDir() string {
	return m.resolvePath(m.Fixtures.Dir)
}

func (m *Manifest) resolvePath(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(filepath.Dir(m.Path), p)
}

type manifestFile struct {
	Name     string       `yaml:"name"`
	Version  string       `yaml:"version"`
	Targets  targetMap    `yaml:"targets"`
	REPL     replYAML     `yaml:"repl"`
	Fixtures fixturesYAML `yaml:"fixtures"`
}

type replYAML struct {
	Prompt       *string `yaml:"prompt"`
	Continuation *string `yaml:"continuation"`
	History      string  `yaml:"history"`
}

type fixturesYAML struct {
	Dir      string `yaml:"dir"`
	Parallel int    `yaml:"parallel"`
}

type targetYAML struct {
	Main string `yaml:"main"`
}

// targetMap keeps targets in document order so the first one is the default.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		tm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		// A bare string is shorthand for {main: <path>}.
		if valueNode.Kind == yaml.ScalarNode {
			if err := valueNode.Decode(&entry.Main); err != nil {
				return fmt.Errorf("manifest: target %q: %w", key, err)
			}
		} else if err := valueNode.Decode(entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:        path,
		Name:        strings.TrimSpace(mf.Name),
		Version:     strings.TrimSpace(mf.Version),
		Targets:     make(map[string]*TargetSpec, len(mf.Targets.items)),
		TargetOrder: make([]string, 0, len(mf.Targets.items)),
		REPL: REPLConfig{
			Prompt:       defaultPrompt,
			Continuation: defaultContinuation,
			History:      strings.TrimSpace(mf.REPL.History),
		},
		Fixtures: FixtureConfig{
			Dir:      strings.TrimSpace(mf.Fixtures.Dir),
			Parallel: mf.Fixtures.Parallel,
		},
	}
	if mf.REPL.Prompt != nil {
		result.REPL.Prompt = *mf.REPL.Prompt
	}
	if mf.REPL.Continuation != nil {
		result.REPL.Continuation = *mf.REPL.Continuation
	}
	if result.Fixtures.Dir == "" {
		result.Fixtures.Dir = defaultFixtureDir
	}

	for _, item := range mf.Targets.items {
		if item.spec == nil {
			continue
		}
		if _, exists := result.Targets[item.name]; exists {
			continue
		}
		result.Targets[item.name] = &TargetSpec{
			Name: item.name,
			Main: strings.TrimSpace(item.spec.Main),
		}
		result.TargetOrder = append(result.TargetOrder, item.name)
	}
	return result
}
