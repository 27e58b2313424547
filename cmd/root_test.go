package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	cerrors "cibuild/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CIBUILD_COMPONENT", "CIBUILD_CACHE_SIZE", "CIBUILD_FORMAT",
		"CIBUILD_STATS", "CIBUILD_VERBOSE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)
	var buf bytes.Buffer
	err := run(context.Background(), args, &buf)
	return buf.String(), err
}

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	out, err := runArgs(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "cibuild ") {
		t.Errorf("got %q", out)
	}
}

// TestExecute_Help verifies --help returns without error.
func TestExecute_Help(t *testing.T) {
	if _, err := runArgs(t, "--help"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_NoArgs verifies a bare run prints the descriptor.
func TestExecute_NoArgs(t *testing.T) {
	out, err := runArgs(t, "--component", "Demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"IDemo (DemoComposite)", "Greeter_Greet", "Counter_Increment", "func(string) string"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	out, err := runArgs(t, "--component", "Demo", "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("dry run wrote output: %q", out)
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := [][]string{
		{"--component", "not valid", "--dry-run"},
		{"--cache-size", "-1", "--dry-run"},
		{"--format", "xml", "--dry-run"},
		{"--call", "Greeter_Greet(", "--dry-run"},
	}
	for _, args := range tests {
		_, err := runArgs(t, args...)
		if err == nil {
			t.Errorf("%v: expected validation error", args)
			continue
		}
		if !errors.Is(err, cerrors.ErrInvalidConfig) {
			t.Errorf("%v: got %v, want ErrInvalidConfig", args, err)
		}
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	if _, err := runArgs(t, "--nonexistent-flag"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_Calls verifies calls reach the sample delegates in order.
func TestExecute_Calls(t *testing.T) {
	out, err := runArgs(t,
		"-c", "Greeter_Greet(Sam)",
		"-c", "Counter_Increment",
		"Counter_Increment()",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Greeter_Greet(Sam) = Hello, Sam\n",
		"Counter_Increment() = 1\n",
		"Counter_Increment() = 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestExecute_CallErrors verifies bad calls surface as errors.
func TestExecute_CallErrors(t *testing.T) {
	tests := []struct {
		call string
		want error
	}{
		{"Greeter_Wave(Sam)", cerrors.ErrUnknownMethod},
		{"Greet(Sam)", cerrors.ErrUnknownMethod},
		{"Greeter_Greet", cerrors.ErrArgumentMismatch},
		{"Counter_Increment(1)", cerrors.ErrArgumentMismatch},
	}
	for _, tt := range tests {
		_, err := runArgs(t, "--call", tt.call)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.call, err, tt.want)
		}
	}
}

// TestExecute_Cancelled verifies a cancelled context stops before any
// call runs.
func TestExecute_Cancelled(t *testing.T) {
	clearEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := run(ctx, []string{"-c", "Counter_Increment"}, &buf)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if strings.Contains(buf.String(), "Counter_Increment() =") {
		t.Error("call ran after cancellation")
	}
}

// TestExecute_YAML verifies the YAML descriptor and statistics.
func TestExecute_YAML(t *testing.T) {
	out, err := runArgs(t, "--component", "Demo", "-f", "yaml", "--stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(out))
	var doc struct {
		Name    string `yaml:"name"`
		Type    string `yaml:"type"`
		Methods []struct {
			Name string `yaml:"name"`
		} `yaml:"methods"`
		Stats struct {
			BuildsTotal       int64 `yaml:"builds_total"`
			TypesMaterialized int64 `yaml:"types_materialized"`
		} `yaml:"stats"`
	}
	if err := dec.Decode(&doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.Name != "IDemo" || doc.Type != "DemoComposite" {
		t.Errorf("got %s / %s", doc.Name, doc.Type)
	}
	if len(doc.Methods) != 2 || doc.Methods[0].Name != "Greeter_Greet" {
		t.Errorf("methods = %+v", doc.Methods)
	}
	if doc.Stats.BuildsTotal != 1 || doc.Stats.TypesMaterialized != 1 {
		t.Errorf("stats = %+v", doc.Stats)
	}
}

// TestExecute_ConfigFile verifies file values apply and flags win.
func TestExecute_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cibuild.yaml")
	data := "component: FromFile\ncalls:\n  - Greeter_Greet(File)\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runArgs(t, "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "IFromFile") || !strings.Contains(out, "Hello, File") {
		t.Errorf("file config not applied:\n%s", out)
	}

	out, err = runArgs(t, "--config", path, "--component", "FromFlag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "IFromFlag") {
		t.Errorf("flag did not override file:\n%s", out)
	}
}

// TestExecute_Env verifies environment values apply below flags.
func TestExecute_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("CIBUILD_COMPONENT", "FromEnv")

	var buf bytes.Buffer
	if err := run(context.Background(), nil, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "IFromEnv") {
		t.Errorf("env not applied:\n%s", buf.String())
	}
}
