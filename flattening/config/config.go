package config

import (
	"encoding/json"
	"os"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the configuration of a flattening project.
type ProjectConfig struct {
	// Flattening describes the configuration used by flatten operations.
	Flattening FlatteningConfig `json:"flattening"`

	// Logging describes the configuration used for logging to file and console
	Logging LoggingConfig `json:"logging"`
}

// FlatteningConfig describes the configuration options used by the flattening.Flattener and the flatten command.
type FlatteningConfig struct {
	// Target describes the path (or doublestar glob) of the Solidity file(s) to flatten. If empty, a target must be
	// provided on the command line.
	Target string `json:"target"`

	// IncludePaths describes the directories searched, in order, for imports that cannot be resolved directly.
	IncludePaths []string `json:"includePaths"`

	// OutputDirectory describes the directory flattened files are written to.
	OutputDirectory string `json:"outputDirectory"`

	// CompilerVersion describes a solc version every `pragma solidity` directive is checked against. If empty, no
	// check is performed.
	CompilerVersion string `json:"compilerVersion"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`

	// NoColor describes whether console output should be emitted without ANSI colors
	NoColor bool `json:"noColor"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields missing from the
// file keep their default values.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration
	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// Verify the output directory is set
	if p.Flattening.OutputDirectory == "" {
		return errors.Errorf("output directory must not be empty")
	}

	// Verify include paths are set
	for i, includePath := range p.Flattening.IncludePaths {
		if includePath == "" {
			return errors.Errorf("include path at index %d must not be empty", i)
		}
	}

	// Verify the compiler version is a well-formed version, if one was provided
	if p.Flattening.CompilerVersion != "" {
		if _, err := semver.NewVersion(p.Flattening.CompilerVersion); err != nil {
			return errors.Errorf("malformed compiler version %q", p.Flattening.CompilerVersion)
		}
	}

	// Verify the log level is one we can emit at
	if p.Logging.Level < zerolog.TraceLevel || p.Logging.Level > zerolog.PanicLevel {
		return errors.Errorf("unsupported log level %q", p.Logging.Level.String())
	}
	return nil
}
