package flattening

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Result describes the outcome of flattening a Solidity file.
type Result struct {
	// Lines describes the flattened lines, in depth-first import-expansion order.
	Lines []SourceLine

	// Sources describes the absolute paths of every file merged into the result, in visitation order.
	Sources []string

	// VersionPragmas describes every `pragma solidity` directive found in the merged files, in encounter order.
	VersionPragmas []VersionPragma

	// PragmaKinds describes the de-duplicated pragma kinds which were emitted once in the result.
	PragmaKinds []PragmaKind
}

// Text concatenates the text of every line of the Result, producing the content of the flattened file.
func (r *Result) Text() string {
	var sb strings.Builder
	for _, line := range r.Lines {
		sb.WriteString(line.Text)
	}
	return sb.String()
}

// Hash returns the hex-encoded, 0x-prefixed Keccak-256 hash of the flattened file content.
func (r *Result) Hash() string {
	hasher := sha3.NewLegacyKeccak256()
	for _, line := range r.Lines {
		hasher.Write([]byte(line.Text))
	}
	return "0x" + hex.EncodeToString(hasher.Sum(nil))
}
