package graph

import (
	"eosindex/internal/core/errors"
	"eosindex/internal/engine/parser"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	includeRe  = regexp.MustCompile(`^#include +([^ ]+)$`)
	macroIncRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

const includeStart = "#include"

type IncludeEdge struct {
	From string
	To   string
	Line int
}

// IncludeGraph holds the local include relationships between a fixed set of
// header files. It is immutable once built.
type IncludeGraph struct {
	files    []string
	excluded []string

	// Relationships
	includes   map[string]map[string]*IncludeEdge // from -> to -> edge
	includedBy map[string]map[string]bool         // to -> from
}

// BuildIncludeGraph records quoted includes between files. Angle-bracket and
// macro-name includes are ignored, as are self-includes. Files whose
// extension is in auxiliary and that no regular file includes are excluded
// from the graph.
func BuildIncludeGraph(files []parser.SourceFile, auxiliary []string) (*IncludeGraph, error) {
	g := &IncludeGraph{
		includes:   make(map[string]map[string]*IncludeEdge, len(files)),
		includedBy: make(map[string]map[string]bool, len(files)),
	}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.Name] = true
	}

	all := make([]string, 0, len(files))
	for _, f := range files {
		all = append(all, f.Name)
		g.includes[f.Name] = make(map[string]*IncludeEdge)
		for i, line := range f.Lines {
			target, ok, err := includeTarget(line, f.Name, i+1)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if target == f.Name {
				slog.Debug("ignoring self include", "file", f.Name, "line", i+1)
				continue
			}
			if !present[target] {
				err := errors.Newf(errors.CodeUnresolvableDependency, "%s includes %s which is not part of the header set", f.Name, target)
				err = errors.AddContext(err, errors.CtxFile, f.Name)
				err = errors.AddContext(err, errors.CtxLine, i+1)
				return nil, errors.AddContext(err, errors.CtxName, target)
			}
			g.includes[f.Name][target] = &IncludeEdge{From: f.Name, To: target, Line: i + 1}
		}
	}

	dropped := make(map[string]bool)
	for _, name := range all {
		if !hasExtension(name, auxiliary) {
			continue
		}
		included := false
		for _, from := range all {
			if hasExtension(from, auxiliary) {
				continue
			}
			if _, ok := g.includes[from][name]; ok {
				included = true
				break
			}
		}
		if !included {
			dropped[name] = true
			g.excluded = append(g.excluded, name)
		}
	}

	for _, name := range all {
		if dropped[name] {
			delete(g.includes, name)
			continue
		}
		g.files = append(g.files, name)
		for to := range g.includes[name] {
			if dropped[to] {
				delete(g.includes[name], to)
				continue
			}
			if g.includedBy[to] == nil {
				g.includedBy[to] = make(map[string]bool)
			}
			g.includedBy[to][name] = true
		}
	}
	if len(g.excluded) > 0 {
		slog.Debug("excluded auxiliary headers", "files", g.excluded)
	}
	return g, nil
}

// includeTarget returns the base name of a quoted local include on line.
func includeTarget(line, file string, lineNo int) (string, bool, error) {
	if !strings.HasPrefix(line, includeStart) {
		return "", false, nil
	}
	m := includeRe.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return "", false, malformedInclude(line, file, lineNo)
	}
	target := strings.TrimSpace(m[1])
	switch {
	case len(target) > 2 && strings.HasPrefix(target, `"`) && strings.HasSuffix(target, `"`):
		return path.Base(target[1 : len(target)-1]), true, nil
	case strings.HasPrefix(target, "<") && strings.HasSuffix(target, ">"):
		return "", false, nil
	case macroIncRe.MatchString(target):
		return "", false, nil
	}
	return "", false, malformedInclude(line, file, lineNo)
}

func malformedInclude(line, file string, lineNo int) error {
	err := errors.Newf(errors.CodeMalformedConstruct, "unsupported include form: %q", line)
	err = errors.AddContext(err, errors.CtxFile, file)
	return errors.AddContext(err, errors.CtxLine, lineNo)
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Files returns the graph's files in input order.
func (g *IncludeGraph) Files() []string {
	out := make([]string, len(g.files))
	copy(out, g.files)
	return out
}

// Excluded returns the auxiliary files left out of the graph.
func (g *IncludeGraph) Excluded() []string {
	out := make([]string, len(g.excluded))
	copy(out, g.excluded)
	return out
}

// Includes returns the local headers file includes, sorted.
func (g *IncludeGraph) Includes(file string) []string {
	out := make([]string, 0, len(g.includes[file]))
	for to := range g.includes[file] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

func (g *IncludeGraph) Edges() []IncludeEdge {
	var out []IncludeEdge
	for _, from := range g.files {
		for _, to := range g.Includes(from) {
			out = append(out, *g.includes[from][to])
		}
	}
	return out
}

// Order returns the files so that every file comes after the local headers it
// includes. Each pass emits, in input order, every file whose includes have
// all been emitted, including files emitted earlier in the same pass. A pass
// that emits nothing means the remaining files can never be ordered.
func (g *IncludeGraph) Order() ([]string, error) {
	order := make([]string, 0, len(g.files))
	emitted := make(map[string]bool, len(g.files))
	pending := g.Files()

	for len(pending) > 0 {
		rest := make([]string, 0, len(pending))
		for _, file := range pending {
			if g.ready(file, emitted) {
				order = append(order, file)
				emitted[file] = true
				continue
			}
			rest = append(rest, file)
		}
		if len(rest) == len(pending) {
			return nil, g.unresolvable(rest)
		}
		pending = rest
	}
	return order, nil
}

func (g *IncludeGraph) ready(file string, emitted map[string]bool) bool {
	for to := range g.includes[file] {
		if !emitted[to] {
			return false
		}
	}
	return true
}

func (g *IncludeGraph) unresolvable(remaining []string) error {
	msg := "include graph cannot be ordered: " + strings.Join(remaining, ", ")
	if cycles := g.DetectCycles(); len(cycles) > 0 {
		parts := make([]string, 0, len(cycles))
		for _, c := range cycles {
			parts = append(parts, strings.Join(append(c, c[0]), " -> "))
		}
		msg += "; cycles: " + strings.Join(parts, "; ")
	}
	err := errors.New(errors.CodeUnresolvableDependency, msg)
	return errors.AddContext(err, errors.CtxFile, remaining[0])
}
