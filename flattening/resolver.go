package flattening

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
)

// ImportResolver describes a component which locates the files referenced by import statements. A resolver is created
// for every top-level flatten operation and is shared by every file visited during that operation.
type ImportResolver interface {
	// AddSearchDirectory registers an absolute directory which may satisfy later import lookups.
	AddSearchDirectory(dir string)

	// Resolve locates the file referenced by the provided import path, found in a file within the absolute
	// importerDir, and returns its absolute path. If the import cannot be located, a FlattenError naming the import
	// path is returned.
	Resolve(importerDir string, importPath string) (string, error)

	// SearchDirectories returns a copy of the directories currently searched, in search order.
	SearchDirectories() []string
}

// ResolverFactory describes a function which creates an ImportResolver for a single flatten operation, given the
// filesystem and the include directories supplied by the user.
type ResolverFactory func(fs afero.Fs, includePaths []string) (ImportResolver, error)

// IncludePathResolver is the default ImportResolver. It resolves an import path directly if it refers to an existing
// file relative to the importing file's directory, and otherwise searches an ordered list of include directories, the first match winning.
//
// The list of include directories only ever grows: every directory registered while visiting one branch of the
// import graph stays a candidate for every later lookup, including lookups in unrelated sibling branches.
type IncludePathResolver struct {
	// fs describes the filesystem files are looked up on.
	fs afero.Fs

	// searchDirectories describes the absolute directories searched for import targets, in search order.
	searchDirectories []string
}

// NewIncludePathResolver creates an IncludePathResolver seeded with the provided include directories. Relative include
// directories are made absolute against the working directory. Returns an error if a path cannot be made absolute.
func NewIncludePathResolver(fs afero.Fs, includePaths []string) (*IncludePathResolver, error) {
	searchDirectories := make([]string, 0, len(includePaths))
	for _, includePath := range includePaths {
		absPath, err := filepath.Abs(includePath)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		searchDirectories = append(searchDirectories, absPath)
	}
	return &IncludePathResolver{
		fs:                fs,
		searchDirectories: searchDirectories,
	}, nil
}

// newDefaultResolver is the ResolverFactory used by a Flattener unless another one is provided.
func newDefaultResolver(fs afero.Fs, includePaths []string) (ImportResolver, error) {
	return NewIncludePathResolver(fs, includePaths)
}

// AddSearchDirectory appends the provided directory to the end of the search list.
func (r *IncludePathResolver) AddSearchDirectory(dir string) {
	r.searchDirectories = append(r.searchDirectories, dir)
}

// SearchDirectories returns a copy of the directories currently searched, in search order.
func (r *IncludePathResolver) SearchDirectories() []string {
	return slices.Clone(r.searchDirectories)
}

// Resolve locates the file referenced by the provided import path. The import path is used directly if it refers to
// an existing file relative to importerDir (or, for absolute import paths, as-is). Otherwise, the first search
// directory containing the import path wins. Returns the absolute path to the file, or a FlattenError if nothing
// matched.
func (r *IncludePathResolver) Resolve(importerDir string, importPath string) (string, error) {
	// The path relative to the importing file wins if it already points at a file
	direct := importPath
	if !filepath.IsAbs(direct) {
		direct = filepath.Join(importerDir, importPath)
	}
	if isRegularFile(r.fs, direct) {
		absPath, err := filepath.Abs(direct)
		if err != nil {
			return "", errors.WithStack(err)
		}
		return absPath, nil
	}

	// Otherwise, search our directories in order
	for _, dir := range r.searchDirectories {
		candidate := filepath.Join(dir, importPath)
		if isRegularFile(r.fs, candidate) {
			return candidate, nil
		}
	}
	return "", newFlattenError(importPath, "cannot find import file")
}

// isRegularFile returns a boolean indicating whether the provided path refers to an existing regular file.
func isRegularFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
