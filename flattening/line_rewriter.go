package flattening

import "strings"

// PragmaKind describes a category of compiler directive which may only be emitted once in a flattened file.
type PragmaKind string

const (
	// PragmaKindABICoder describes `pragma abicoder ...;`
	PragmaKindABICoder PragmaKind = "abicoder"
	// PragmaKindABIEncoderV2 describes `pragma experimental ABIEncoderV2;`
	PragmaKindABIEncoderV2 PragmaKind = "ABIEncoderV2"
	// PragmaKindSMTChecker describes `pragma experimental SMTChecker;`
	PragmaKindSMTChecker PragmaKind = "SMTChecker"
)

// trackedPragmaKinds lists the pragma kinds which are de-duplicated, in match order.
var trackedPragmaKinds = []PragmaKind{PragmaKindABICoder, PragmaKindABIEncoderV2, PragmaKindSMTChecker}

const (
	// suppressedPragmaLine replaces a pragma directive whose kind was already emitted.
	suppressedPragmaLine = "//pragma pragma\n"
	// spdxLicenseTag is scrubbed from every line, as merged files may carry conflicting license identifiers.
	spdxLicenseTag = "SPDX-License"
	// spdxLicenseReplacement replaces every occurrence of spdxLicenseTag.
	spdxLicenseReplacement = "IGNORE_LICENSE"
)

// LineRewriter rewrites non-import source lines: duplicate pragma directives are commented out and SPDX license tags
// are neutralized. A LineRewriter remembers which pragma kinds it has emitted, so a single instance must be used for
// every line of one flatten operation.
type LineRewriter struct {
	// seenPragmas describes the pragma kinds which were already emitted.
	seenPragmas map[PragmaKind]struct{}
}

// NewLineRewriter creates a LineRewriter which has not seen any pragma yet.
func NewLineRewriter() *LineRewriter {
	return &LineRewriter{
		seenPragmas: make(map[PragmaKind]struct{}),
	}
}

// Rewrite returns the rewritten form of the provided line. The first rule to match wins:
// a pragma of an already emitted kind becomes a comment marker, a pragma of a new kind is recorded and kept as-is,
// and any other line has its SPDX license tags replaced.
func (r *LineRewriter) Rewrite(line string) string {
	keyword, remainder := splitKeyword(line)

	if keyword == "pragma" && remainder != "" {
		matched := false
		for _, kind := range trackedPragmaKinds {
			if !strings.Contains(remainder, string(kind)) {
				continue
			}
			if _, seen := r.seenPragmas[kind]; seen {
				return suppressedPragmaLine
			}
			r.seenPragmas[kind] = struct{}{}
			matched = true
		}
		if matched {
			return line
		}
	}

	if strings.Contains(line, spdxLicenseTag) {
		return strings.ReplaceAll(line, spdxLicenseTag, spdxLicenseReplacement)
	}
	return line
}

// SeenPragmaKinds returns the pragma kinds emitted so far, in match order.
func (r *LineRewriter) SeenPragmaKinds() []PragmaKind {
	kinds := make([]PragmaKind, 0, len(r.seenPragmas))
	for _, kind := range trackedPragmaKinds {
		if _, seen := r.seenPragmas[kind]; seen {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
