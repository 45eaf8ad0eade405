package flattening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLineRewriterPragmas ensures the first pragma of each tracked kind is kept and later ones are commented out.
func TestLineRewriterPragmas(t *testing.T) {
	rewriter := NewLineRewriter()

	assert.Equal(t, "pragma abicoder v2;\n", rewriter.Rewrite("pragma abicoder v2;\n"))
	assert.Equal(t, "//pragma pragma\n", rewriter.Rewrite("pragma abicoder v2;\n"))
	assert.Equal(t, "//pragma pragma\n", rewriter.Rewrite("    pragma abicoder v1;\n"))

	// Untracked pragmas are never touched
	assert.Equal(t, "pragma solidity ^0.8.0;\n", rewriter.Rewrite("pragma solidity ^0.8.0;\n"))
	assert.Equal(t, "pragma solidity ^0.8.0;\n", rewriter.Rewrite("pragma solidity ^0.8.0;\n"))

	// Kinds are matched case-sensitively
	assert.Equal(t, "pragma experimental ABIEncoderV2;\n", rewriter.Rewrite("pragma experimental ABIEncoderV2;\n"))
	assert.Equal(t, "//pragma pragma\n", rewriter.Rewrite("pragma experimental ABIEncoderV2;\n"))

	// The keyword must be exactly pragma
	assert.Equal(t, "// pragma abicoder v2;\n", rewriter.Rewrite("// pragma abicoder v2;\n"))

	assert.Equal(t, []PragmaKind{PragmaKindABICoder, PragmaKindABIEncoderV2}, rewriter.SeenPragmaKinds())
}

// TestLineRewriterLicenses ensures every SPDX license tag is replaced while the rest of the line is preserved.
func TestLineRewriterLicenses(t *testing.T) {
	rewriter := NewLineRewriter()

	assert.Equal(t, "// IGNORE_LICENSE-Identifier: MIT\n", rewriter.Rewrite("// SPDX-License-Identifier: MIT\n"))
	assert.Equal(t, "// IGNORE_LICENSE-Identifier: MIT\n", rewriter.Rewrite("// SPDX-License-Identifier: MIT\n"))
	assert.Equal(t, "/* IGNORE_LICENSE, IGNORE_LICENSE */", rewriter.Rewrite("/* SPDX-License, SPDX-License */"))
	assert.Equal(t, "contract A {}\n", rewriter.Rewrite("contract A {}\n"))
	assert.Equal(t, "\n", rewriter.Rewrite("\n"))
}

// TestLineRewriterPragmaTakesPriority ensures a first-seen tracked pragma is emitted untouched, even if it carries
// a license tag.
func TestLineRewriterPragmaTakesPriority(t *testing.T) {
	rewriter := NewLineRewriter()

	line := "pragma abicoder v2; // SPDX-License-Identifier: MIT\n"
	assert.Equal(t, line, rewriter.Rewrite(line))
	assert.Equal(t, "//pragma pragma\n", rewriter.Rewrite(line))
}
