package flattening

import (
	"bytes"
	"strings"
	"unicode"
)

// maxSourceLineLength describes the longest physical line that can be read from a source file.
const maxSourceLineLength = 16 * 1024 * 1024

// SourceLine describes a single line of the flattened output along with where it originated from.
type SourceLine struct {
	// OriginPath describes the absolute path of the file this line was read from.
	OriginPath string

	// LineNumber describes the zero-based index of the line within OriginPath.
	LineNumber int

	// Text describes the (possibly rewritten) content of the line. It always ends with exactly one line break.
	Text string
}

// newSourceLine creates a SourceLine, ensuring the text is terminated by a single line break.
func newSourceLine(originPath string, lineNumber int, text string) SourceLine {
	// A source file can end without a line break, so we need to append one
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return SourceLine{
		OriginPath: originPath,
		LineNumber: lineNumber,
		Text:       text,
	}
}

// splitKeyword splits a line (after trimming surrounding whitespace) into its leading keyword and the remainder of the
// line. The remainder is empty if the line contains a single token, and both are empty for a blank line.
func splitKeyword(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return trimmed, ""
	}
	return trimmed[:idx], strings.TrimLeftFunc(trimmed[idx:], unicode.IsSpace)
}

// scanSourceLines is a bufio.SplitFunc yielding one physical line per token. "\n", "\r\n" and a lone "\r" all end a
// line, and the returned token carries the terminator normalized to "\n". A final line without a terminator is
// returned as is.
func scanSourceLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i+1], nil
		}
		// Wait for the next byte to tell a lone CR from CRLF
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		token := append(data[:i:i], '\n')
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, token, nil
		}
		return i + 1, token, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
