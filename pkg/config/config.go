// Package config loads tscheck.yaml, the project file holding analyzer
// options.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nooga/tscheck/pkg/builtins"
	"github.com/nooga/tscheck/pkg/checker"
)

// FileName is the configuration file looked up in the project root.
const FileName = "tscheck.yaml"

// Config holds the options of a checking run.
type Config struct {
	Path                 string
	Libs                 []builtins.Lib
	AllowUnreachableCode bool
	Strict               bool
	Workers              int
	Include              []string
}

type configFile struct {
	Libs                 libList  `yaml:"libs"`
	AllowUnreachableCode bool     `yaml:"allowUnreachableCode"`
	Strict               bool     `yaml:"strict"`
	Workers              int      `yaml:"workers"`
	Include              []string `yaml:"include"`
}

// libList accepts either a YAML sequence or a comma separated string.
type libList []string

func (l *libList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("line %d: libs must be a string or a list", node.Line)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default is the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Libs:    append([]builtins.Lib(nil), builtins.DefaultLibs...),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Find looks for FileName in dir. A missing file gives the default
// configuration.
func Find(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return Load(path)
}

// Decode parses a configuration document. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, err
	}
	return raw.toConfig()
}

func (f *configFile) toConfig() (*Config, error) {
	cfg := Default()
	cfg.AllowUnreachableCode = f.AllowUnreachableCode
	cfg.Strict = f.Strict
	cfg.Include = f.Include

	var errs ValidationError
	if len(f.Libs) > 0 {
		cfg.Libs = nil
		for _, name := range f.Libs {
			lib, err := builtins.ParseLib(name)
			if err != nil {
				errs.Issues = append(errs.Issues, fmt.Sprintf("libs: %v", err))
				continue
			}
			cfg.Libs = append(cfg.Libs, lib)
		}
	}
	switch {
	case f.Workers < 0:
		errs.Issues = append(errs.Issues, fmt.Sprintf("workers must not be negative, got %d", f.Workers))
	case f.Workers > 0:
		cfg.Workers = f.Workers
	}
	for i, pattern := range f.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("include[%d]: bad pattern %q", i, pattern))
		}
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

// SetLibs replaces the library set from a comma separated list, as given on
// the command line.
func (c *Config) SetLibs(list string) error {
	var libs []builtins.Lib
	for _, name := range splitList(list) {
		lib, err := builtins.ParseLib(name)
		if err != nil {
			return err
		}
		libs = append(libs, lib)
	}
	if len(libs) == 0 {
		return fmt.Errorf("empty lib list")
	}
	c.Libs = libs
	return nil
}

// CheckerOptions converts the configuration into analyzer options.
func (c *Config) CheckerOptions() checker.Options {
	return checker.Options{
		AllowUnreachableCode: c.AllowUnreachableCode,
		Strict:               c.Strict,
	}
}

// Registry builds the built-in declarations for the configured libraries.
func (c *Config) Registry() (*builtins.Registry, error) {
	return builtins.NewRegistry(c.Libs...)
}

// Files expands the include patterns relative to the configuration file's
// directory (or dir when the configuration did not come from a file).
// The result is sorted and free of duplicates.
func (c *Config) Files(dir string) ([]string, error) {
	if c.Path != "" {
		dir = filepath.Dir(c.Path)
	}
	seen := map[string]bool{}
	var out []string
	for _, pattern := range c.Include {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("config: include %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
