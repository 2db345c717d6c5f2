// Package config loads the runtime settings of an Ioke embedding.
package config

// Config represents the complete Ioke configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing config file, for resolving relative paths
	Parser  ParserConfig  `yaml:"parser"`
	Format  FormatConfig  `yaml:"format"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParserConfig holds literal parsing settings
type ParserConfig struct {
	MaxInterpolationDepth int    `yaml:"max_interpolation_depth"` // Deepest #{} nesting accepted inside a literal, 0 for unlimited (default: 64)
	Interpolation         string `yaml:"interpolation"`           // Engine for #{} code: "ioke" or "expr" (default: "ioke")
}

// FormatConfig holds format engine settings
type FormatConfig struct {
	MaxOutput int `yaml:"max_output"` // Largest rendered text in characters, 0 for no limit
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// Interpolation engines.
const (
	InterpolationIoke = "ioke"
	InterpolationExpr = "expr"
)

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxInterpolationDepth: 64,
			Interpolation:         InterpolationIoke,
		},
		Format: FormatConfig{
			MaxOutput: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
