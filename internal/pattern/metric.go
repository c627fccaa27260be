// Package pattern defines declarative text-pattern metrics and the scanner
// that evaluates them over a file set.
package pattern

import (
	"bytes"
	"regexp"

	"github.com/huangsam/stylemetrics/schema"
)

// LineFilter reports whether a line should be dropped before counting.
type LineFilter func(line []byte) bool

// Metric describes one measurable property of a source tree.
type Metric struct {
	ID          string
	Description string
	Patterns    []*regexp.Regexp
	Mode        schema.CountingMode
	Exclude     LineFilter // optional
}

// Literal compiles a pattern matching s verbatim.
func Literal(s string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(s))
}

// Count evaluates the metric against the content of a single file.
// In occurrence mode every non-overlapping match of every pattern counts;
// in matching-file mode the result is 1 if any pattern matches, else 0.
func (m Metric) Count(content []byte) int {
	if m.Exclude != nil {
		content = filterLines(content, m.Exclude)
	}

	if m.Mode == schema.MatchingFileCount {
		for _, re := range m.Patterns {
			if re.Match(content) {
				return 1
			}
		}
		return 0
	}

	total := 0
	for _, re := range m.Patterns {
		total += len(re.FindAllIndex(content, -1))
	}
	return total
}

// Info describes the metric for listings.
func (m Metric) Info() schema.RuleInfo {
	patterns := make([]string, len(m.Patterns))
	for i, re := range m.Patterns {
		patterns[i] = re.String()
	}
	return schema.RuleInfo{
		Kind:        "metric",
		ID:          m.ID,
		Mode:        string(m.Mode),
		Description: m.Description,
		Patterns:    patterns,
	}
}

// filterLines returns content without the lines the filter drops.
func filterLines(content []byte, drop LineFilter) []byte {
	var out bytes.Buffer
	out.Grow(len(content))
	for len(content) > 0 {
		line := content
		rest := []byte(nil)
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line = content[:i+1]
			rest = content[i+1:]
		}
		if !drop(bytes.TrimRight(line, "\r\n")) {
			out.Write(line)
		}
		content = rest
	}
	return out.Bytes()
}

// CommentLine drops lines whose first non-blank characters start a
// docblock continuation ("*") or a line comment ("//").
func CommentLine(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t")
	return bytes.HasPrefix(trimmed, []byte("*")) || bytes.HasPrefix(trimmed, []byte("//"))
}
