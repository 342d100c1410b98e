package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrTemplateNotFound is returned when a literal template path does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// ExpandTemplates turns template paths and globs into an ordered, duplicate
// free list of files. Relative entries are resolved against baseDir. Globs
// support ** via doublestar; a glob matching nothing is not an error, a
// missing literal path is.
func ExpandTemplates(patterns []string, baseDir string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, pattern := range patterns {
		resolved := ResolvePath(baseDir, pattern)

		if !hasGlobMeta(pattern) {
			info, err := os.Stat(resolved)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, pattern)
				}
				return nil, fmt.Errorf("stat %s: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("template path is a directory: %s", pattern)
			}
			add(resolved)
			continue
		}

		matches, err := doublestar.FilepathGlob(resolved, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding glob pattern %s: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// OutputPath maps a template file to its rendered file inside outDir.
// The path relative to baseDir is preserved and a trailing .tmpl
// extension is dropped.
func OutputPath(templatePath, baseDir, outDir string) string {
	rel, err := filepath.Rel(baseDir, templatePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(templatePath)
	}
	rel = strings.TrimSuffix(rel, ".tmpl")
	return filepath.Join(outDir, rel)
}
