package canonizer

// Config consolidates settings for the registry tools.
type Config struct {
	Registry RegistryConfig `json:"registry"`
	Index    IndexConfig    `json:"index"`
	Publish  PublishConfig  `json:"publish"`
	Logging  LoggingConfig  `json:"logging"`
}

// RegistryConfig locates the registry checkout under audit.
type RegistryConfig struct {
	Root string `json:"root"`
}

// IndexConfig controls the generated index artifact.
type IndexConfig struct {
	OutputPath    string `json:"outputPath"`
	FormatVersion string `json:"formatVersion"`
}

// PublishConfig controls index publication to object storage.
type PublishConfig struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Region string `json:"region"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// DefaultConfig returns the default tool configuration.
func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Root: ".",
		},
		Index: IndexConfig{
			OutputPath:    "REGISTRY_INDEX.json",
			FormatVersion: "1.0.0",
		},
		Publish: PublishConfig{
			Key: "REGISTRY_INDEX.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Registry.Root == "" {
		return &ConfigError{Field: "registry.root", Message: "must not be empty"}
	}
	if c.Index.FormatVersion == "" {
		return &ConfigError{Field: "index.formatVersion", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
