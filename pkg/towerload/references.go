package towerload

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
)

// ResolveReferences returns the reference workbooks of files followed by
// the .xlsx and .xls workbooks of each directory in name order. Duplicates,
// Office lock files and the custom workbook itself are dropped.
func ResolveReferences(custom string, files, dirs []string) ([]string, error) {
	seen := make(map[string]bool)
	if custom != "" {
		seen[absPath(custom)] = true
	}
	var out []string
	add := func(p string) {
		key := absPath(p)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	for _, f := range files {
		add(f)
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &errs.DataFormatError{File: dir, Msg: "cannot read reference directory", Err: err}
		}
		var names []string
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, "~$") || !isWorkbook(name) {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			add(filepath.Join(dir, name))
		}
	}
	return out, nil
}

func isWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

func absPath(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return filepath.Clean(p)
}
