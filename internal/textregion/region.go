// Package textregion locates and replaces the line range holding one
// array-valued field of a line-oriented document.
//
// The scan counts '[' and ']' characters per line and is not aware of string
// literals. Callers must only target fields whose string values never contain
// bracket characters.
package textregion

import "strings"

// Region is an inclusive line range. Begin == End means the field is empty
// (its opening and closing brackets share one line).
type Region struct {
	Begin int
	End   int
}

// NotFound is returned when the field or its closing bracket is missing.
var NotFound = Region{Begin: -1, End: -1}

func (r Region) Found() bool {
	return r.Begin >= 0 && r.End >= 0
}

func (r Region) Empty() bool {
	return r.Found() && r.Begin == r.End
}

// Len is the number of lines the region covers.
func (r Region) Len() int {
	if !r.Found() {
		return 0
	}
	return r.End - r.Begin + 1
}

// Locate finds the first line containing marker and follows bracket depth
// until the array closes.
func Locate(lines []string, marker string) Region {
	begin := markerLine(lines, marker)
	if begin == -1 {
		return NotFound
	}

	if strings.Contains(lines[begin], "]") {
		return Region{Begin: begin, End: begin}
	}

	end := closingLine(lines, begin)
	if end == -1 {
		return NotFound
	}
	return Region{Begin: begin, End: end}
}

// HasMarker reports whether any line contains marker, closed or not.
func HasMarker(lines []string, marker string) bool {
	return markerLine(lines, marker) != -1
}

func markerLine(lines []string, marker string) int {
	for i, line := range lines {
		if strings.Contains(line, marker) {
			return i
		}
	}
	return -1
}

// InlineContent returns the trimmed text between the first '[' and the last
// ']' of line. It is empty for "[]" and for lines without brackets.
func InlineContent(line string) string {
	open := strings.Index(line, "[")
	closing := strings.LastIndex(line, "]")
	if open == -1 || closing <= open {
		return ""
	}
	return strings.TrimSpace(line[open+1 : closing])
}

func closingLine(lines []string, begin int) int {
	depth := 1
	for i := begin + 1; i < len(lines); i++ {
		depth -= strings.Count(lines[i], "]")
		depth += strings.Count(lines[i], "[")
		if depth == 0 {
			return i
		}
	}
	return -1
}

// LocateOrCreate behaves like Locate. When no line holds marker, emptyField
// is inserted before the last line (other than the first) that holds a
// closing brace, and the line in front of it receives a separating comma.
// The returned slice is a copy whenever an insertion happened; lines itself
// is never modified. A marker whose array never closes yields NotFound and
// nothing is inserted.
func LocateOrCreate(lines []string, marker string, emptyField []string) ([]string, Region) {
	if HasMarker(lines, marker) {
		return lines, Locate(lines, marker)
	}

	anchor := -1
	for i := len(lines) - 1; i >= 1; i-- {
		if strings.Contains(lines[i], "}") {
			anchor = i
			break
		}
	}

	if anchor == -1 || len(emptyField) == 0 {
		return lines, NotFound
	}

	out := make([]string, 0, len(lines)+len(emptyField))
	out = append(out, lines[:anchor]...)
	out = append(out, emptyField...)
	out = append(out, lines[anchor:]...)

	out[anchor-1] = withTrailingComma(out[anchor-1])

	return out, Region{Begin: anchor, End: anchor + len(emptyField) - 1}
}

func withTrailingComma(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" || strings.HasSuffix(trimmed, ",") || strings.HasSuffix(trimmed, "{") {
		return line
	}
	return trimmed + "," + line[len(trimmed):]
}

// Splice returns a new slice in which the lines of region are replaced by
// replacement.
func Splice(lines []string, region Region, replacement []string) []string {
	if !region.Found() {
		return lines
	}

	out := make([]string, 0, len(lines)-region.Len()+len(replacement))
	out = append(out, lines[:region.Begin]...)
	out = append(out, replacement...)
	out = append(out, lines[region.End+1:]...)
	return out
}
