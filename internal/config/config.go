package config

// Config represents the complete codelens configuration.
// It can be loaded from .codelens/config.yml with environment variable overrides.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Snippets SnippetsConfig `yaml:"snippets" mapstructure:"snippets"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for code files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// AnalysisConfig controls the analysis passes.
type AnalysisConfig struct {
	Workers        int    `yaml:"workers" mapstructure:"workers"`                 // parallel parse workers, 0 = NumCPU
	Extended       bool   `yaml:"extended" mapstructure:"extended"`               // run the extended resolution pass
	Backend        string `yaml:"backend" mapstructure:"backend"`                 // "local" or "none"
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"` // per-file budget for extended resolution
}

// SnippetsConfig controls the snippet database.
type SnippetsConfig struct {
	Database      string `yaml:"database" mapstructure:"database"`             // sqlite path, ":memory:" for ephemeral
	CacheCapacity int    `yaml:"cache_capacity" mapstructure:"cache_capacity"` // file-content cache entries
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Code: []string{
				"**/*.py",
				"**/*.ts",
				"**/*.tsx",
				"**/*.java",
				"**/*.go",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.pyc",
			},
		},
		Analysis: AnalysisConfig{
			Workers:        0,
			Extended:       false,
			Backend:        "local",
			TimeoutSeconds: 5,
		},
		Snippets: SnippetsConfig{
			Database:      ":memory:",
			CacheCapacity: 256,
		},
	}
}
