package flattening

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ImportKind describes which form of Solidity import statement was used.
type ImportKind int

const (
	// ImportKindPlain describes `import "path";`
	ImportKindPlain ImportKind = iota
	// ImportKindAliased describes `import "path" as Alias;`
	ImportKindAliased
	// ImportKindWildcard describes `import * as Alias from "path";`
	ImportKindWildcard
	// ImportKindSelective describes `import { A, B as C } from "path";`
	ImportKindSelective
)

// String returns a string representation of the ImportKind.
func (k ImportKind) String() string {
	switch k {
	case ImportKindPlain:
		return "plain"
	case ImportKindAliased:
		return "aliased"
	case ImportKindWildcard:
		return "wildcard"
	case ImportKindSelective:
		return "selective"
	default:
		return "unknown"
	}
}

// ImportDirective describes a parsed Solidity import statement.
type ImportDirective struct {
	// Kind describes the form of the import statement.
	Kind ImportKind

	// Path describes the imported path literal, without its surrounding quotes.
	Path string

	// Alias describes the unit alias for aliased and wildcard imports. It is empty for other kinds.
	Alias string
}

const (
	// quotedPathPattern matches a single or double-quoted path literal, capturing its content in one of two groups.
	quotedPathPattern = `(?:"([^"]*)"|'([^']*)')`
	// identifierPattern matches a Solidity identifier.
	identifierPattern = `([A-Za-z_$][A-Za-z0-9_$]*)`
	// terminatorPattern matches the statement terminator with an optional trailing line comment.
	terminatorPattern = `\s*;\s*(?://.*)?$`
)

var (
	// plainImportRegex matches `import "path";` and `import "path" as Alias;`
	plainImportRegex = regexp.MustCompile(`^import\s*` + quotedPathPattern + `(?:\s+as\s+` + identifierPattern + `)?` + terminatorPattern)
	// wildcardImportRegex matches `import * as Alias from "path";`
	wildcardImportRegex = regexp.MustCompile(`^import\s*\*\s*as\s+` + identifierPattern + `\s+from\s*` + quotedPathPattern + terminatorPattern)
	// selectiveImportRegex matches `import { ... } from "path";`
	selectiveImportRegex = regexp.MustCompile(`^import\s*\{[^}]*\}\s*from\s*` + quotedPathPattern + terminatorPattern)
)

// ParseImportDirective parses a single-line Solidity import statement. Surrounding whitespace is ignored. Returns an
// error if the statement does not match any of the supported import forms.
func ParseImportDirective(statement string) (*ImportDirective, error) {
	trimmed := strings.TrimSpace(statement)

	var directive *ImportDirective
	if m := plainImportRegex.FindStringSubmatch(trimmed); m != nil {
		directive = &ImportDirective{Kind: ImportKindPlain, Path: firstNonEmpty(m[1], m[2])}
		if m[3] != "" {
			directive.Kind = ImportKindAliased
			directive.Alias = m[3]
		}
	} else if m := wildcardImportRegex.FindStringSubmatch(trimmed); m != nil {
		directive = &ImportDirective{Kind: ImportKindWildcard, Path: firstNonEmpty(m[2], m[3]), Alias: m[1]}
	} else if m := selectiveImportRegex.FindStringSubmatch(trimmed); m != nil {
		directive = &ImportDirective{Kind: ImportKindSelective, Path: firstNonEmpty(m[1], m[2])}
	} else {
		return nil, errors.Errorf("unsupported import statement %q", trimmed)
	}

	if directive.Path == "" {
		return nil, errors.Errorf("import statement %q has an empty path", trimmed)
	}
	return directive, nil
}

// firstNonEmpty returns the first of the provided strings which is not empty.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
