package formats

import (
	"strings"

	"hooklint/internal/core/ports"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff of every file a dry-run would have fixed.
func Diff(result ports.RunResult, opts Options) ([]byte, error) {
	var b strings.Builder
	for _, f := range result.Files {
		if f.Output == nil {
			continue
		}
		name := relativePath(opts.ProjectRoot, f.Path)
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(f.Source)),
			B:        difflib.SplitLines(string(f.Output)),
			FromFile: "a/" + name,
			ToFile:   "b/" + name,
			Context:  3,
		})
		if err != nil {
			return nil, err
		}
		b.WriteString(text)
	}
	return []byte(b.String()), nil
}
