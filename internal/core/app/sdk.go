package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"eosindex/internal/core/errors"
	"eosindex/internal/engine/parser"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentReads = 8

// LocateSDK returns the first layout below dir holding the marker header.
func LocateSDK(dir, marker string, layouts []string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		e := errors.Newf(errors.CodeNotFound, "sdk directory %s does not exist", dir)
		return "", errors.AddContext(e, errors.CtxPath, dir)
	}

	for _, layout := range layouts {
		candidate := filepath.Join(dir, filepath.FromSlash(layout))
		if _, err := os.Stat(filepath.Join(candidate, marker)); err == nil {
			slog.Debug("located sdk include directory", "path", candidate)
			return candidate, nil
		}
	}

	e := errors.Newf(errors.CodeNotFound, "could not find EOS C SDK in %s (no %s in %s)", dir, marker, strings.Join(quoteLayouts(layouts), ", "))
	return "", errors.AddContext(e, errors.CtxPath, dir)
}

func quoteLayouts(layouts []string) []string {
	out := make([]string, len(layouts))
	for i, l := range layouts {
		if l == "" {
			l = "."
		}
		out[i] = l
	}
	return out
}

// LoadHeaders reads every header below dir. Directories and files are
// visited in name order, files of a directory before its subdirectories.
// Headers are keyed by base name, so two headers sharing one are an error.
func LoadHeaders(ctx context.Context, dir string, extensions, excludes []string) ([]parser.SourceFile, error) {
	excludeGlobs, err := compileGlobs(excludes)
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := make(map[string]string)
	if err := collectHeaders(dir, extensions, excludeGlobs, seen, &paths); err != nil {
		return nil, err
	}

	files := make([]parser.SourceFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				e := errors.Wrap(err, errors.CodeInternal, "read header")
				return errors.AddContext(e, errors.CtxPath, path)
			}
			files[i] = parser.SourceFile{
				Name:  filepath.Base(path),
				Lines: parser.SplitLines(string(content)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("loaded headers", "dir", dir, "count", len(files))
	return files, nil
}

func collectHeaders(dir string, extensions []string, excludes []glob.Glob, seen map[string]string, paths *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		e := errors.Wrap(err, errors.CodeInternal, "list header directory")
		return errors.AddContext(e, errors.CtxPath, dir)
	}

	var subdirs []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		name := entry.Name()
		if !hasExtension(name, extensions) || matchesAny(excludes, name) {
			continue
		}
		if prev, ok := seen[name]; ok {
			e := errors.Newf(errors.CodeDuplicateDeclaration, "header %s found in both %s and %s", name, filepath.Dir(prev), dir)
			e = errors.AddContext(e, errors.CtxName, name)
			return errors.AddContext(e, errors.CtxPath, full)
		}
		seen[name] = full
		*paths = append(*paths, full)
	}

	for _, sub := range subdirs {
		if err := collectHeaders(sub, extensions, excludes, seen, paths); err != nil {
			return err
		}
	}
	return nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			e := errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern")
			return nil, errors.AddContext(e, errors.CtxName, p)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
