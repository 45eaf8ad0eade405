package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/Masterminds/semver"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/crytic/solflat/cmd/exitcodes"
	"github.com/crytic/solflat/flattening"
	"github.com/crytic/solflat/flattening/config"
	"github.com/crytic/solflat/logging"
	"github.com/crytic/solflat/logging/colors"
	"github.com/crytic/solflat/utils"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// flattenCmd represents the command provider for flattening
var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Flattens a Solidity file and its imports into a single file",
	Long: heredoc.Doc(`
		Flattens a Solidity file and all of its transitive imports into a single self-contained file.

		Imports are resolved as written first, then against every --include directory in order, then against the
		directories of the files visited so far. Each file is merged once, duplicate abicoder, ABIEncoderV2 and
		SMTChecker pragmas are commented out, and SPDX license tags are neutralized.

		The result is written to <output>/<name>_flattened.<ext>.
	`),
	Args:              cmdValidateFlattenArgs,
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunFlatten,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the flatten command
	err := addFlattenFlags()
	if err != nil {
		cmdLogger.Panic("Failed to initialize the flatten command", err)
	}

	// Add the flatten command and its associated flags to the root command
	rootCmd.AddCommand(flattenCmd)
}

// cmdValidateFlattenArgs makes sure that there are no positional arguments provided to the flatten command
func cmdValidateFlattenArgs(cmd *cobra.Command, args []string) error {
	// Make sure we have no positional args
	if err := cobra.NoArgs(cmd, args); err != nil {
		err = fmt.Errorf("flatten does not accept any positional arguments, only flags and their associated values")
		cmdLogger.Error("Failed to validate args to the flatten command", err)
		return err
	}
	return nil
}

// cmdRunFlatten executes the CLI flatten command and navigates through the following possibilities:
// #1: We will search for either a custom config file (via --config) or the default (solflat.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If solflat.json can't be found, use the default project configuration.
func cmdRunFlatten(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the flatten command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithFlattenFlags(cmd, projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to run the flatten command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	err = projectConfig.Validate()
	if err != nil {
		cmdLogger.Error("Failed to validate the project configuration", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	if projectConfig.Flattening.Target == "" {
		err = errors.Errorf("a target must be provided with --path or in the project configuration")
		cmdLogger.Error("Failed to run the flatten command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Set up logging for this run
	closeLogFile, err := setupLogging(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to set up logging", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer closeLogFile()
	runLogger := logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

	// Parse the compiler version to check version pragmas against, if any
	var compilerVersion *semver.Version
	if projectConfig.Flattening.CompilerVersion != "" {
		compilerVersion, err = semver.NewVersion(projectConfig.Flattening.CompilerVersion)
		if err != nil {
			runLogger.Error("Failed to parse the compiler version", err)
			return exitcodes.NewErrorWithExitCode(errors.WithStack(err), exitcodes.ExitCodeHandledError)
		}
	}

	// Determine every target to flatten. A missing or non-file target is fatal and not a flattening error.
	targets, err := expandTargets(projectConfig.Flattening.Target)
	if err != nil {
		return err
	}

	// Record every merged file so it can be summarized along with the number of lines it contributed
	var mergedFiles []flattening.FileFlattenedEvent
	fs := afero.NewOsFs()
	flattener := flattening.NewFlattener(fs, projectConfig.Flattening.IncludePaths...)
	flattener.Events.FileFlattened.Subscribe(func(event flattening.FileFlattenedEvent) error {
		mergedFiles = append(mergedFiles, event)
		return nil
	})
	if includePaths := flattener.IncludePaths(); len(includePaths) > 0 {
		runLogger.Debug("Searching include directories: ", colors.Bold, strings.Join(includePaths, ", "), colors.Reset)
	}

	mismatchCount := 0
	for _, target := range targets {
		mergedFiles = nil
		result, err := flattener.Flatten(target)
		if err != nil {
			runLogger.Error("Failed to flatten ", colors.Bold, target, colors.Reset, err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}

		outputPath, err := result.WriteToDirectory(fs, projectConfig.Flattening.OutputDirectory, target)
		if err != nil {
			runLogger.Error("Failed to write the flattened file for ", colors.Bold, target, colors.Reset, err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
		logFlattenResult(runLogger, target, outputPath, result, mergedFiles)

		if compilerVersion != nil {
			mismatchCount += logVersionMismatches(runLogger, result.CheckCompilerVersion(compilerVersion), compilerVersion)
		}
	}

	if mismatchCount > 0 {
		err = errors.Errorf("%d version pragma(s) are not satisfied by solc %s", mismatchCount, compilerVersion.String())
		runLogger.Warn(err.Error())
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeVersionMismatch)
	}
	return nil
}

// loadProjectConfig reads the project configuration referenced by the --config flag, or the default configuration
// file in the working directory. If neither is provided and the default file is missing, the default project
// configuration is returned.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If --config was not used, look for `solflat.json` in the current work directory
	if !configFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		configPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		cmdLogger.Info("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		return config.ReadProjectConfigFromFile(configPath)
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed {
		return nil, errors.WithStack(existenceError)
	}

	// Possibility #3: --config flag was not used and solflat.json was not found, so use the default project config
	cmdLogger.Debug("No configuration file found at ", configPath, ", using the default project configuration")
	return config.GetDefaultProjectConfig(), nil
}

// setupLogging configures the console and global loggers from the project configuration. Every event logged during
// this run carries a unique runId. If a log directory is configured, structured logs are written to a new file
// within it. Returns a function which releases the log file, or an error if one occurred.
func setupLogging(projectConfig *config.ProjectConfig) (func(), error) {
	loggingConfig := projectConfig.Logging

	// Configure console coloring
	if loggingConfig.NoColor {
		colors.DisableColor()
		cmdLogger.RemoveWriter(os.Stdout, logging.UNSTRUCTURED, true)
		cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, false)
	}
	cmdLogger.SetLevel(loggingConfig.Level)

	// Every package derives its logger from the global one
	globalLogger := logging.NewLogger(loggingConfig.Level)
	globalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !loggingConfig.NoColor)

	closeLogFile := func() {}
	if loggingConfig.LogDirectory != "" {
		logFile, err := utils.CreateFile(loggingConfig.LogDirectory, fmt.Sprintf("log-%d.log", time.Now().Unix()))
		if err != nil {
			return nil, err
		}
		globalLogger.AddWriter(logFile, logging.STRUCTURED, false)
		closeLogFile = func() {
			logging.GlobalLogger.RemoveWriter(logFile, logging.STRUCTURED, false)
			_ = logFile.Close()
		}
	}

	logging.GlobalLogger = globalLogger.NewSubLogger("runId", uuid.New().String())
	return closeLogFile, nil
}

// expandTargets returns the files to flatten for the provided target. A target containing glob metacharacters is
// expanded with doublestar semantics and every matched regular file is returned, sorted. Otherwise the target must
// refer to an existing regular file.
func expandTargets(target string) ([]string, error) {
	if !strings.ContainsAny(target, "*?[{") {
		isFile, err := utils.IsRegularFile(target)
		if err != nil {
			return nil, err
		}
		if !isFile {
			return nil, errors.Errorf("target %s does not exist or is not a file", target)
		}
		return []string{target}, nil
	}

	matches, err := doublestar.FilepathGlob(target)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid target pattern %s", target)
	}
	targets := utils.SliceWhere(matches, func(match string) bool {
		isFile, err := utils.IsRegularFile(match)
		return err == nil && isFile
	})
	if len(targets) == 0 {
		return nil, errors.Errorf("target pattern %s did not match any file", target)
	}
	return targets, nil
}

// logFlattenResult logs a summary of a successful flatten operation.
func logFlattenResult(logger *logging.Logger, target string, outputPath string, result *flattening.Result, mergedFiles []flattening.FileFlattenedEvent) {
	buffer := logging.NewLogBuffer()
	buffer.Append("Flattened ", colors.Bold, target, colors.Reset, " into ", colors.Bold, outputPath, colors.Reset,
		fmt.Sprintf(" (%d sources, %d lines, %s)", len(result.Sources), len(result.Lines), humanize.Bytes(uint64(len(result.Text())))))
	for _, mergedFile := range mergedFiles {
		buffer.Append("\n", colors.GreenBold, colors.LEFT_ARROW, colors.Reset, " ", mergedFile.Path,
			colors.DarkGray, fmt.Sprintf(" (%d lines)", mergedFile.LineCount), colors.Reset)
	}
	logger.Info(buffer.Elements()...)

	logger.Info("Output hash: ", colors.CyanBold, result.Hash(), colors.Reset, logging.StructuredLogInfo{
		"target":      target,
		"output":      outputPath,
		"hash":        result.Hash(),
		"pragmaKinds": utils.SliceSelect(result.PragmaKinds, func(kind flattening.PragmaKind) string { return string(kind) }),
	})
}

// logVersionMismatches logs a warning for every version pragma which the provided compiler version does not satisfy.
// Returns the number of mismatches.
func logVersionMismatches(logger *logging.Logger, mismatches []flattening.VersionMismatch, compilerVersion *semver.Version) int {
	for _, mismatch := range mismatches {
		if mismatch.Err != nil {
			logger.Warn("Could not check ", colors.Bold, mismatch.Pragma.String(), colors.Reset, mismatch.Err)
			continue
		}
		logger.Warn(colors.Bold, mismatch.Pragma.String(), colors.Reset, " is not satisfied by solc ",
			colors.YellowBold, compilerVersion.String(), colors.Reset)
	}
	return len(mismatches)
}
