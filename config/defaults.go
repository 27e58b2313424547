package config

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultComponentPrefix starts every generated component name.
	DefaultComponentPrefix = "__"

	// DefaultCacheSize disables the composite type cache; every Build
	// synthesizes a fresh type.
	DefaultCacheSize = 0

	// FormatText prints the descriptor as an aligned table.
	FormatText = "text"

	// FormatYAML prints the descriptor as a YAML document.
	FormatYAML = "yaml"

	// DefaultFormat is the descriptor output format.
	DefaultFormat = FormatText

	// DefaultEnvFile is loaded by the CLI when present.
	DefaultEnvFile = ".env"
)
