// Package config defines the runtime configuration for cibuild and
// provides helpers for parsing call specifications.
package config

import (
	"fmt"
	"regexp"
	"strings"

	cerrors "cibuild/internal/errors"
)

// Config holds every tuneable for a builder and the demo harness.
type Config struct {
	// ── Builder ──────────────────────────────────────────────────────
	ComponentName string `yaml:"component"`  // empty → random "__<uuid>"
	CacheSize     int    `yaml:"cache_size"` // 0 disables the type cache

	// ── Harness ──────────────────────────────────────────────────────
	Calls  []string `yaml:"calls"`  // raw "Name(arg, ...)" specs
	Format string   `yaml:"format"` // "text" or "yaml"
	Stats  bool     `yaml:"stats"`

	// ── Output ───────────────────────────────────────────────────────
	Verbose int `yaml:"verbose"`
}

// ── Call-spec parser ─────────────────────────────────────────────────

// Call is a parsed invocation of a synthesized method.
type Call struct {
	Method string
	Args   []string
}

func (c Call) String() string {
	return c.Method + "(" + strings.Join(c.Args, ", ") + ")"
}

// callRe matches Name or Name(args).
var callRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\((.*)\))?\s*$`)

// ParseCallSpec extracts the method name and raw arguments from a string
// such as "Greeter_Greet(Sam)".  Arguments are comma separated and
// trimmed; they are converted to parameter types at call time.
func ParseCallSpec(spec string) (Call, error) {
	m := callRe.FindStringSubmatch(spec)
	if m == nil {
		return Call{}, fmt.Errorf("invalid call spec %q – expected Name(arg, ...)", spec)
	}
	call := Call{Method: m[1]}
	if strings.TrimSpace(m[2]) == "" {
		return call, nil
	}
	for _, a := range strings.Split(m[2], ",") {
		call.Args = append(call.Args, strings.TrimSpace(a))
	}
	return call, nil
}

// ParsedCalls parses every entry of c.Calls.
func (c *Config) ParsedCalls() ([]Call, error) {
	out := make([]Call, 0, len(c.Calls))
	for _, spec := range c.Calls {
		call, err := ParseCallSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, call)
	}
	return out, nil
}

// ── Validation ───────────────────────────────────────────────────────

// componentRe restricts component names to identifier characters so
// that derived type names stay readable.
var componentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ComponentName != "" && !componentRe.MatchString(c.ComponentName) {
		return &cerrors.ConfigError{
			Field:   "component",
			Value:   c.ComponentName,
			Message: "must be an identifier",
			Hint:    "use letters, digits and underscores, e.g. __orders",
		}
	}
	if c.CacheSize < 0 {
		return &cerrors.ConfigError{
			Field:   "cache-size",
			Value:   c.CacheSize,
			Message: "must not be negative",
			Hint:    "use 0 to disable the type cache",
		}
	}
	switch c.Format {
	case "", FormatText, FormatYAML:
	default:
		return &cerrors.ConfigError{
			Field:   "format",
			Value:   c.Format,
			Message: "unknown output format",
			Hint:    "use text or yaml",
		}
	}
	if _, err := c.ParsedCalls(); err != nil {
		return &cerrors.ConfigError{Field: "call", Message: err.Error()}
	}
	return nil
}
