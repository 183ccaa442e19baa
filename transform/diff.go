package transform

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

type diffLine struct {
	op           diffpatch.Operation
	text         string
	oldNo, newNo int // lines consumed before this one
}

// UnifiedDiff renders a line diff from before to after with three lines of
// context. It returns "" when the texts are equal.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var lines []diffLine
	oldNo, newNo := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			lines = append(lines, diffLine{op: d.Type, text: text, oldNo: oldNo, newNo: newNo})
			if d.Type != diffpatch.DiffInsert {
				oldNo++
			}
			if d.Type != diffpatch.DiffDelete {
				newNo++
			}
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s (generated)\n", path, path)
	for _, h := range hunks(lines) {
		writeHunk(&out, lines[h[0]:h[1]])
	}
	return out.String()
}

// hunks returns [start, end) ranges covering every change plus context,
// merging ranges that touch.
func hunks(lines []diffLine) [][2]int {
	var ranges [][2]int
	for i, l := range lines {
		if l.op == diffpatch.DiffEqual {
			continue
		}
		lo, hi := max(0, i-diffContext), min(len(lines), i+diffContext+1)
		if n := len(ranges); n > 0 && lo <= ranges[n-1][1] {
			ranges[n-1][1] = max(ranges[n-1][1], hi)
			continue
		}
		ranges = append(ranges, [2]int{lo, hi})
	}
	return ranges
}

func writeHunk(out *strings.Builder, lines []diffLine) {
	oldCount, newCount := 0, 0
	for _, l := range lines {
		if l.op != diffpatch.DiffInsert {
			oldCount++
		}
		if l.op != diffpatch.DiffDelete {
			newCount++
		}
	}
	oldStart, newStart := lines[0].oldNo, lines[0].newNo
	if oldCount > 0 {
		oldStart++
	}
	if newCount > 0 {
		newStart++
	}
	fmt.Fprintf(out, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)

	for _, l := range lines {
		prefix := " "
		switch l.op {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		out.WriteString(prefix + l.text)
		if !strings.HasSuffix(l.text, "\n") {
			out.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

func splitLines(text string) []string {
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
