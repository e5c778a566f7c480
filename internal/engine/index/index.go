package index

import (
	"eosindex/internal/core/errors"
	"eosindex/internal/engine/graph"
	"eosindex/internal/engine/parser"
	"log/slog"
)

// Document is the serializable index of one header set. Sequences keep
// declaration order; keys serialize alphabetically with metadata first.
type Document struct {
	Metadata        interface{}       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CallbackMethods []parser.Callback `json:"callback_methods" yaml:"callback_methods"`
	Defines         []parser.Define   `json:"defines" yaml:"defines"`
	Enums           []parser.Enum     `json:"enums" yaml:"enums"`
	Functions       []parser.Function `json:"functions" yaml:"functions"`
	Structs         []parser.Struct   `json:"structs" yaml:"structs"`
	Typedefs        []parser.Typedef  `json:"typedefs" yaml:"typedefs"`
}

// Counts reports the number of records per declaration kind.
func (d *Document) Counts() map[string]int {
	return map[string]int{
		parser.KindCallback: len(d.CallbackMethods),
		parser.KindDefine:   len(d.Defines),
		parser.KindEnum:     len(d.Enums),
		parser.KindFunction: len(d.Functions),
		parser.KindStruct:   len(d.Structs),
		parser.KindTypedef:  len(d.Typedefs),
	}
}

// Plan orders files by their local includes and substitutes the bootstrap
// file's content. The returned files are ready for extraction.
func Plan(files []parser.SourceFile, opts Options) ([]parser.SourceFile, error) {
	g, err := graph.BuildIncludeGraph(files, opts.AuxiliaryExtensions)
	if err != nil {
		return nil, err
	}
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]parser.SourceFile, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}

	planned := make([]parser.SourceFile, 0, len(order))
	bootstrapped := opts.BootstrapFile == ""
	for _, name := range order {
		f := byName[name]
		if name == opts.BootstrapFile {
			lines := make([]string, len(opts.BootstrapLines))
			copy(lines, opts.BootstrapLines)
			f = parser.SourceFile{Name: name, Lines: lines}
			bootstrapped = true
		}
		planned = append(planned, f)
	}
	if !bootstrapped {
		err := errors.Newf(errors.CodeNotFound, "bootstrap header %s is not part of the header set", opts.BootstrapFile)
		return nil, errors.AddContext(err, errors.CtxFile, opts.BootstrapFile)
	}

	slog.Debug("planned header order", "files", len(planned), "edges", len(g.Edges()), "excluded", len(g.Excluded()))
	return planned, nil
}

// Extract runs the extraction dispatcher over planned files and assembles the
// document. A non-empty metadata mapping is normalized and attached.
func Extract(planned []parser.SourceFile, opts Options, metadata map[string]interface{}) (*Document, error) {
	x, err := parser.NewExtractor(opts.Options)
	if err != nil {
		return nil, err
	}
	if err := x.ExtractAll(planned); err != nil {
		return nil, err
	}

	r := x.Registry()
	doc := &Document{
		CallbackMethods: r.Callbacks(),
		Defines:         r.Defines(),
		Enums:           r.Enums(),
		Functions:       r.Functions(),
		Structs:         r.Structs(),
		Typedefs:        r.Typedefs(),
	}
	if len(metadata) > 0 {
		doc.Metadata = Normalize(metadata)
	}
	return doc, nil
}

// Build orders, bootstraps and extracts files in one call.
func Build(files []parser.SourceFile, opts Options, metadata map[string]interface{}) (*Document, error) {
	planned, err := Plan(files, opts)
	if err != nil {
		return nil, err
	}
	return Extract(planned, opts, metadata)
}
