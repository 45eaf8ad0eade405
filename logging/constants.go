package logging

// These constants are used to identify the various services that may do some logging
const (
	// FLATTENING_SERVICE is the constant used to identify the flattening package
	FLATTENING_SERVICE = "flattening"
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
)
