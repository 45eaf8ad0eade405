package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/solflat/cmd/exitcodes"
	"github.com/crytic/solflat/flattening/config"
	"github.com/crytic/solflat/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRootCommand runs the root command with the provided arguments and returns the exit code it would produce.
func executeRootCommand(t *testing.T, args ...string) (error, int) {
	rootCmd.SetArgs(args)
	return exitcodes.GetInnerErrorAndExitCode(rootCmd.Execute())
}

// TestFlattenCommand runs the init and flatten commands against a small project and verifies the written output and
// exit codes.
func TestFlattenCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.sol"), []byte(
		"// SPDX-License-Identifier: MIT\npragma solidity ^0.8.0;\nimport \"Lib.sol\";\ncontract A is Lib {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "Lib.sol"), []byte(
		"// SPDX-License-Identifier: MIT\npragma solidity >=0.8.0;\ncontract Lib {}\n"), 0644))

	testutils.ExecuteInDirectory(t, dir, func() {
		// Write a project configuration naming the target
		err, exitCode := executeRootCommand(t, "init", "--path", "A.sol")
		require.NoError(t, err)
		require.Equal(t, exitcodes.ExitCodeSuccess, exitCode)

		projectConfig, err := config.ReadProjectConfigFromFile(DefaultProjectConfigFilename)
		require.NoError(t, err)
		assert.Equal(t, "A.sol", projectConfig.Flattening.Target)

		// Flatten the configured target, resolving the library through an include directory
		err, exitCode = executeRootCommand(t, "flatten", "--include", "lib/", "--log-level", "error")
		require.NoError(t, err)
		require.Equal(t, exitcodes.ExitCodeSuccess, exitCode)

		b, err := os.ReadFile("A_flattened.sol")
		require.NoError(t, err)
		assert.Equal(t, "// IGNORE_LICENSE-Identifier: MIT\npragma solidity ^0.8.0;\n"+
			"// IGNORE_LICENSE-Identifier: MIT\npragma solidity >=0.8.0;\ncontract Lib {}\n"+
			"contract A is Lib {}\n", string(b))

		// An unsatisfied version pragma still writes output but yields a dedicated exit code
		require.NoError(t, os.Remove("A_flattened.sol"))
		_, exitCode = executeRootCommand(t, "flatten", "--solc-version", "0.7.6")
		assert.Equal(t, exitcodes.ExitCodeVersionMismatch, exitCode)
		assert.FileExists(t, "A_flattened.sol")

		// A missing target is a general error
		_, exitCode = executeRootCommand(t, "flatten", "--path", "Missing.sol", "--solc-version", "0.8.19")
		assert.Equal(t, exitcodes.ExitCodeGeneralError, exitCode)
	})
}

// TestExpandTargets ensures glob targets expand to every matched regular file.
func TestExpandTargets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts", "nested.sol"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contracts", "A.sol"), []byte(""), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts", "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contracts", "sub", "B.sol"), []byte(""), 0644))

	testutils.ExecuteInDirectory(t, dir, func() {
		targets, err := expandTargets("contracts/**/*.sol")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join("contracts", "A.sol"),
			filepath.Join("contracts", "sub", "B.sol"),
		}, targets)

		targets, err = expandTargets(filepath.Join("contracts", "A.sol"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join("contracts", "A.sol")}, targets)

		_, err = expandTargets("contracts/**/*.vy")
		assert.Error(t, err)
		_, err = expandTargets("contracts")
		assert.Error(t, err)
	})
}
