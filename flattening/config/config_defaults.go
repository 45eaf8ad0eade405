package config

import "github.com/rs/zerolog"

// DefaultConfigFileName describes the name of the project configuration file looked up in the working directory.
const DefaultConfigFileName = "solflat.json"

// GetDefaultProjectConfig obtains a default configuration for a project.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Flattening: FlatteningConfig{
			Target:          "",
			IncludePaths:    []string{},
			OutputDirectory: "./",
			CompilerVersion: "",
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "",
			NoColor:      false,
		},
	}
}
