package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"hooklint/internal/core/errors"
)

// Scan expands target paths into the sorted, de-duplicated list of files
// to lint. Directories are walked with the configured excludes; a file
// named directly is linted when its extension is supported, even if an
// exclude pattern would have skipped it during a walk.
func (a *App) Scan(paths []string) ([]string, error) {
	_, _, filter := a.snapshot()

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.AddContext(
					errors.Newf(errors.CodeNotFound, "no such file or directory: %s", root),
					errors.CtxPath, root,
				)
			}
			return nil, err
		}

		if !info.IsDir() {
			if !a.parser.IsSupportedPath(root) {
				return nil, errors.AddContext(
					errors.Newf(errors.CodeNotSupported, "unsupported file type: %s", root),
					errors.CtxPath, root,
				)
			}
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && filter.ExcludeDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if filter.Accept(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
