package cmd

import (
	"fmt"
	"strings"

	"github.com/crytic/solflat/flattening/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// addFlattenFlags adds the various flags for the flatten command
func addFlattenFlags() error {
	// Get the default project config
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	flattenCmd.Flags().SortFlags = false

	// Config file
	flattenCmd.Flags().String("config", "",
		fmt.Sprintf("path to config file (default is %q in the working directory, if present)", DefaultProjectConfigFilename))

	// Target
	flattenCmd.Flags().String("path", "", PathFlagDescription)

	// Include directories
	flattenCmd.Flags().StringArray("include", []string{},
		"directory searched for imports that cannot be resolved directly (may be repeated, searched in order)")

	// Output directory
	flattenCmd.Flags().String("output", "",
		fmt.Sprintf("directory the flattened file is written to (unless a config file is provided, default is %q)", defaultConfig.Flattening.OutputDirectory))

	// Compiler version
	flattenCmd.Flags().String("solc-version", "",
		"solc version every 'pragma solidity' directive is checked against")

	// Log level
	flattenCmd.Flags().String("log-level", "",
		fmt.Sprintf("log level: trace, debug, info, warn, error (unless a config file is provided, default is %q)", defaultConfig.Logging.Level.String()))

	// Console coloring
	flattenCmd.Flags().Bool("no-color", false, "disable colored console output")
	return nil
}

// updateProjectConfigWithFlattenFlags will update the given projectConfig with any CLI arguments that were provided to
// the flatten command
func updateProjectConfigWithFlattenFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update the target
	err = updateFlattenTarget(cmd, projectConfig)
	if err != nil {
		return err
	}

	// Update the include directories. Trailing separators are stripped.
	if cmd.Flags().Changed("include") {
		includePaths, err := cmd.Flags().GetStringArray("include")
		if err != nil {
			return err
		}
		projectConfig.Flattening.IncludePaths = make([]string, 0, len(includePaths))
		for _, includePath := range includePaths {
			trimmed := strings.TrimRight(includePath, "/")
			if trimmed == "" {
				trimmed = includePath
			}
			projectConfig.Flattening.IncludePaths = append(projectConfig.Flattening.IncludePaths, trimmed)
		}
	}

	// Update the output directory
	if cmd.Flags().Changed("output") {
		projectConfig.Flattening.OutputDirectory, err = cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
	}

	// Update the compiler version
	if cmd.Flags().Changed("solc-version") {
		projectConfig.Flattening.CompilerVersion, err = cmd.Flags().GetString("solc-version")
		if err != nil {
			return err
		}
	}

	// Update the log level
	if cmd.Flags().Changed("log-level") {
		levelStr, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		projectConfig.Logging.Level, err = zerolog.ParseLevel(levelStr)
		if err != nil {
			return err
		}
	}

	// Update console coloring
	if cmd.Flags().Changed("no-color") {
		projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
	}
	return nil
}

// updateFlattenTarget will update the flatten target in the projectConfig if the --path flag is used in the command
func updateFlattenTarget(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if cmd.Flags().Changed("path") {
		newTarget, err := cmd.Flags().GetString("path")
		if err != nil {
			return err
		}
		projectConfig.Flattening.Target = newTarget
	}
	return nil
}
