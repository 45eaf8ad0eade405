package flattening

import "github.com/crytic/solflat/events"

// FlattenerEvents defines event emitters for a Flattener. Subscriptions must be made before Flatten is called.
type FlattenerEvents struct {
	// ImportResolved emits events when an import statement was parsed and its target located, before the target is
	// flattened.
	ImportResolved events.EventEmitter[ImportResolvedEvent]

	// FileFlattened emits events when every line of a file, including its expanded imports, was flattened. Files are
	// reported in post-order: a file is reported after every file it imports.
	FileFlattened events.EventEmitter[FileFlattenedEvent]
}

// ImportResolvedEvent describes an event where an import statement was resolved to a file.
type ImportResolvedEvent struct {
	// ImporterPath describes the absolute path of the file containing the import statement.
	ImporterPath string

	// LineNumber describes the zero-based line index of the import statement within ImporterPath.
	LineNumber int

	// Directive describes the parsed import statement.
	Directive ImportDirective

	// ResolvedPath describes the absolute path the import was resolved to.
	ResolvedPath string
}

// FileFlattenedEvent describes an event where a file was flattened.
type FileFlattenedEvent struct {
	// Path describes the absolute path of the flattened file.
	Path string

	// LineCount describes the number of lines the file contributed, including the lines of newly merged imports.
	LineCount int
}
