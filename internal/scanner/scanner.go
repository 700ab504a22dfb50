// Package scanner finds the LaTeX sources below a set of paths.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("texsense.scanner")

// Extensions are the file extensions treated as LaTeX sources.
var Extensions = []string{".tex", ".sty", ".cls", ".ltx", ".dtx"}

// IsSource reports whether path has one of Extensions.
func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan expands roots into source files. A file root is kept whatever its
// extension. A directory root is walked in lexical order; entries whose
// name begins with "." are skipped entirely, and so are files for which
// skip returns true. skip may be nil.
func Scan(roots []string, skip func(path string, info fs.FileInfo) bool) ([]string, error) {
	var files []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root && !d.IsDir() {
				files = append(files, path)
				return nil
			}

			if strings.HasPrefix(d.Name(), ".") && path != root {
				if d.IsDir() {
					log.Debugf("skipping %q", path)
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsSource(path) {
				return nil
			}

			if skip != nil {
				info, err := d.Info()
				if err != nil {
					return nil
				}
				if skip(path, info) {
					return nil
				}
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}
	return files, nil
}
