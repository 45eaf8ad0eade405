package colors

// enabled describes whether ANSI escape codes will be emitted by Colorize.
var enabled = true

// init will ensure that ANSI coloring is enabled on Windows and Unix systems. Note that ANSI coloring is enabled by
// default on Unix system and Windows needs specific kernel calls for enablement
func init() {
	EnableColor()
}

// DisableColor will disable all ANSI coloring. Subsequent calls to any ColorFunc will return the input as a plain string.
func DisableColor() {
	enabled = false
}
