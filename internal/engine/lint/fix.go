package lint

import (
	"bytes"
	"sort"
)

// FixOutcome is the result of applying one round of fixes.
type FixOutcome struct {
	Output []byte
	Fixed  bool
	// Remaining holds messages whose fix was not applied, plus every
	// message without a fix, in source order.
	Remaining     []Message
	AppliedByRule map[string]int
}

// ApplyFixes applies non-overlapping fixes in start order. A fix that starts
// at or before the end of the previously applied fix waits for the next
// pass, so touching edits never merge within one round.
func ApplyFixes(src []byte, msgs []Message) FixOutcome {
	out := FixOutcome{AppliedByRule: make(map[string]int)}

	var fixable []Message
	for _, m := range msgs {
		if m.Fix != nil {
			fixable = append(fixable, m)
		} else {
			out.Remaining = append(out.Remaining, m)
		}
	}
	if len(fixable) == 0 {
		out.Output = src
		sortMessages(out.Remaining)
		return out
	}

	sort.SliceStable(fixable, func(i, j int) bool {
		a, b := fixable[i].Fix.Range, fixable[j].Fix.Range
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})

	var buf bytes.Buffer
	buf.Grow(len(src))
	lastPos := -1
	for _, m := range fixable {
		r := m.Fix.Range
		if r.Start < 0 || r.Start > r.End || r.End > len(src) || lastPos >= r.Start {
			out.Remaining = append(out.Remaining, m)
			continue
		}
		buf.Write(src[max(lastPos, 0):r.Start])
		buf.WriteString(m.Fix.Text)
		lastPos = r.End
		out.Fixed = true
		out.AppliedByRule[m.RuleID]++
	}
	buf.Write(src[max(lastPos, 0):])

	out.Output = buf.Bytes()
	sortMessages(out.Remaining)
	return out
}
