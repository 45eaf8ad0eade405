package flattening

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// VersionPragma describes a `pragma solidity <constraint>;` directive found while flattening.
type VersionPragma struct {
	// OriginPath describes the absolute path of the file the directive was found in.
	OriginPath string

	// LineNumber describes the zero-based line index of the directive within OriginPath.
	LineNumber int

	// Constraint describes the raw version constraint, e.g. ">=0.6.0 <0.9.0" or "^0.8.0".
	Constraint string
}

// newVersionPragma creates a VersionPragma from the remainder of a pragma line (everything after `pragma`).
func newVersionPragma(originPath string, lineNumber int, remainder string) VersionPragma {
	constraint := strings.TrimPrefix(remainder, "solidity")
	constraint = strings.TrimSpace(constraint)
	if idx := strings.Index(constraint, ";"); idx >= 0 {
		constraint = constraint[:idx]
	}
	return VersionPragma{
		OriginPath: originPath,
		LineNumber: lineNumber,
		Constraint: strings.TrimSpace(constraint),
	}
}

// String returns a string representation of the VersionPragma.
func (p VersionPragma) String() string {
	return fmt.Sprintf("%s:%d (solidity %s)", p.OriginPath, p.LineNumber+1, p.Constraint)
}

// VersionMismatch describes a VersionPragma which a compiler version does not satisfy.
type VersionMismatch struct {
	// Pragma describes the unsatisfied directive.
	Pragma VersionPragma

	// Err describes why the directive could not be checked, if its constraint could not be parsed. It is nil if the
	// constraint was parsed but not satisfied.
	Err error
}

// CheckCompilerVersion checks every version pragma of the Result against the provided compiler version. Returns the
// pragmas which are not satisfied or could not be parsed, in encounter order.
func (r *Result) CheckCompilerVersion(version *semver.Version) []VersionMismatch {
	mismatches := make([]VersionMismatch, 0)
	for _, pragma := range r.VersionPragmas {
		constraint, err := ParseSolidityConstraint(pragma.Constraint)
		if err != nil {
			mismatches = append(mismatches, VersionMismatch{Pragma: pragma, Err: err})
			continue
		}
		if !constraint.Check(version) {
			mismatches = append(mismatches, VersionMismatch{Pragma: pragma})
		}
	}
	return mismatches
}

// operatorSpacingRegex matches a comparison operator followed by whitespace, e.g. ">= 0.6.0".
var operatorSpacingRegex = regexp.MustCompile(`(>=|<=|>|<|=|\^|~)\s+`)

// ParseSolidityConstraint parses a Solidity version constraint into semver constraints. Solidity separates
// conjunctions with whitespace and gives caret ranges on 0.x versions npm semantics (^0.8.0 means >=0.8.0 <0.9.0),
// so the constraint is normalized before being parsed.
func ParseSolidityConstraint(constraint string) (*semver.Constraints, error) {
	alternatives := strings.Split(constraint, "||")
	normalized := make([]string, 0, len(alternatives))
	for _, alternative := range alternatives {
		alternative = operatorSpacingRegex.ReplaceAllString(strings.TrimSpace(alternative), "$1")
		fields := strings.Fields(alternative)

		// Hyphen ranges are understood by semver as-is
		if len(fields) == 3 && fields[1] == "-" {
			normalized = append(normalized, alternative)
			continue
		}

		comparisons := make([]string, 0, len(fields))
		for _, field := range fields {
			comparisons = append(comparisons, expandCaret(field))
		}
		normalized = append(normalized, strings.Join(comparisons, ","))
	}

	constraints, err := semver.NewConstraint(strings.Join(normalized, " || "))
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse solidity version constraint %q", constraint)
	}
	return constraints, nil
}

// expandCaret rewrites a caret comparison on a 0.x version into an explicit range. Any other comparison is returned
// unchanged.
func expandCaret(comparison string) string {
	if !strings.HasPrefix(comparison, "^") {
		return comparison
	}
	version, err := semver.NewVersion(comparison[1:])
	if err != nil || version.Major() != 0 {
		return comparison
	}
	if version.Minor() == 0 {
		return fmt.Sprintf(">=%s,<0.0.%d", version.String(), version.Patch()+1)
	}
	return fmt.Sprintf(">=%s,<0.%d.0", version.String(), version.Minor()+1)
}
