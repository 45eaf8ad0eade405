package flattening

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/crytic/solflat/logging"
	"github.com/crytic/solflat/logging/colors"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
)

// solidityFileExtension describes the (case-insensitive) extension every flattened file must carry.
const solidityFileExtension = ".sol"

// Flattener merges a Solidity source file and all of its transitive imports into a single sequence of lines.
// A Flattener holds no per-operation state, so it can be reused for any number of Flatten calls.
type Flattener struct {
	// Events describes the event emitters used by the Flattener.
	Events FlattenerEvents

	// fs describes the filesystem source files are read from.
	fs afero.Fs

	// includePaths describes the user-supplied directories searched for import targets.
	includePaths []string

	// resolverFactory creates the ImportResolver used by each flatten operation.
	resolverFactory ResolverFactory

	// logger describes the Flattener's logger.
	logger *logging.Logger
}

// NewFlattener creates a Flattener reading from the provided filesystem, which searches the provided include
// directories for imports that cannot be resolved directly.
func NewFlattener(fs afero.Fs, includePaths ...string) *Flattener {
	return &Flattener{
		fs:              fs,
		includePaths:    slices.Clone(includePaths),
		resolverFactory: newDefaultResolver,
		logger:          logging.GlobalLogger.NewSubLogger("module", logging.FLATTENING_SERVICE),
	}
}

// WithResolverFactory replaces the factory used to create the ImportResolver of every subsequent flatten operation.
// Returns the Flattener to allow chaining.
func (f *Flattener) WithResolverFactory(factory ResolverFactory) *Flattener {
	f.resolverFactory = factory
	return f
}

// IncludePaths returns a copy of the user-supplied include directories.
func (f *Flattener) IncludePaths() []string {
	return slices.Clone(f.includePaths)
}

// Flatten flattens the Solidity file at the provided path. Every import is replaced, recursively, by the lines of the
// file it refers to, and each file is only ever included once. Returns the flattened Result, or an error if any file
// in the import graph failed validation or an import could not be resolved. No partial result is returned on error.
func (f *Flattener) Flatten(filePath string) (*Result, error) {
	resolver, err := f.resolverFactory(f.fs, f.includePaths)
	if err != nil {
		return nil, err
	}

	ctx := &flattenContext{
		fs:       f.fs,
		visited:  make(map[string]struct{}),
		rewriter: NewLineRewriter(),
		resolver: resolver,
		events:   &f.Events,
		logger:   f.logger,
	}
	lines, err := ctx.flatten(filePath)
	if err != nil {
		return nil, err
	}

	return &Result{
		Lines:          lines,
		Sources:        ctx.sources,
		VersionPragmas: ctx.versionPragmas,
		PragmaKinds:    ctx.rewriter.SeenPragmaKinds(),
	}, nil
}

// flattenContext describes the state shared by every recursive step of a single flatten operation.
type flattenContext struct {
	// fs describes the filesystem source files are read from.
	fs afero.Fs

	// visited describes the base names of the files which were already flattened. Files are deduplicated by base
	// name, so the same file name at different locations is considered to be the same file.
	visited map[string]struct{}

	// rewriter rewrites non-import lines and tracks which pragma kinds were emitted.
	rewriter *LineRewriter

	// resolver locates import targets and owns the list of searched directories.
	resolver ImportResolver

	// sources describes the absolute paths of every flattened file, in visitation order.
	sources []string

	// versionPragmas describes every `pragma solidity` directive encountered, in encounter order.
	versionPragmas []VersionPragma

	// events describes the event emitters of the Flattener which created this context.
	events *FlattenerEvents

	// logger describes the logger of the Flattener which created this context.
	logger *logging.Logger
}

// flatten flattens a single file and, recursively, every file it imports. Returns the lines of the file with its
// imports expanded in place, or an empty list if the file was already flattened during this operation.
func (c *flattenContext) flatten(filePath string) ([]SourceLine, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Files that were already flattened are skipped
	fileName := filepath.Base(absPath)
	if _, ok := c.visited[fileName]; ok {
		c.logger.Debug("Skipping already flattened file: ", colors.Bold, filePath, colors.Reset)
		return []SourceLine{}, nil
	}

	if !isRegularFile(c.fs, filePath) {
		return nil, newFlattenError(filePath, "target is not a file")
	}
	if !strings.HasSuffix(strings.ToLower(filePath), solidityFileExtension) {
		return nil, newFlattenError(filePath, "only solidity files are allowed")
	}

	// Imports relative to this file must be resolvable for everything visited from now on
	c.resolver.AddSearchDirectory(filepath.Dir(absPath))
	c.visited[fileName] = struct{}{}
	c.sources = append(c.sources, absPath)
	c.logger.Debug("Flattening file: ", colors.Bold, filePath, colors.Reset)

	file, err := c.fs.Open(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	content := make([]SourceLine, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxSourceLineLength)
	scanner.Split(scanSourceLines)
	for lineNumber := 0; scanner.Scan(); lineNumber++ {
		line := scanner.Text()

		keyword, remainder := splitKeyword(line)
		if keyword == "import" {
			importedLines, err := c.flattenImport(absPath, lineNumber, line)
			if err != nil {
				return nil, err
			}
			content = append(content, importedLines...)
		} else {
			if keyword == "pragma" && strings.HasPrefix(remainder, "solidity") {
				c.versionPragmas = append(c.versionPragmas, newVersionPragma(absPath, lineNumber, remainder))
			}
			content = append(content, newSourceLine(absPath, lineNumber, c.rewriter.Rewrite(line)))
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	err = c.events.FileFlattened.Publish(FileFlattenedEvent{Path: absPath, LineCount: len(content)})
	if err != nil {
		return nil, err
	}
	return content, nil
}

// flattenImport parses and resolves the import statement found on the given line of the given file, then flattens
// the imported file.
func (c *flattenContext) flattenImport(absPath string, lineNumber int, line string) ([]SourceLine, error) {
	directive, err := ParseImportDirective(line)
	if err != nil {
		return nil, newFlattenError(absPath, "malformed import statement on line %d (%v)", lineNumber+1, err)
	}

	resolvedPath, err := c.resolver.Resolve(filepath.Dir(absPath), directive.Path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Resolved import ", colors.Bold, directive.Path, colors.Reset, " in ", filepath.Base(absPath),
		" to ", colors.Bold, resolvedPath, colors.Reset)

	err = c.events.ImportResolved.Publish(ImportResolvedEvent{
		ImporterPath: absPath,
		LineNumber:   lineNumber,
		Directive:    *directive,
		ResolvedPath: resolvedPath,
	})
	if err != nil {
		return nil, err
	}

	return c.flatten(resolvedPath)
}
