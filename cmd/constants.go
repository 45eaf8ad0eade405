package cmd

import "github.com/crytic/solflat/flattening/config"

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = config.DefaultConfigFileName

// PathFlagDescription describes the flag description for the path flag
const PathFlagDescription = "path to the solidity file to flatten, or a glob (e.g. contracts/**/*.sol) matching several"
