package parser

import (
	"eosindex/internal/core/errors"
	"log/slog"
	"strings"
)

// scan is the per-file cursor state shared by the rule handlers.
type scan struct {
	file    string
	lines   []string
	next    int
	comment string
	uiIndex int64
}

type rule struct {
	kind   string
	match  func(line string) bool
	handle func(x *Extractor, s *scan, line string) error
}

func prefixed(prefixes ...string) func(string) bool {
	return func(line string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return true
			}
		}
		return false
	}
}

func blankOrLineComment(line string) bool {
	return strings.TrimSpace(line) == "" || isLineComment(line)
}

// Extractor scans header files line by line and feeds recognized
// declarations into its Registry.
type Extractor struct {
	opts     Options
	registry *Registry
	typedefs *TypedefParser
	rules    []rule
	uiEnums  map[string]UIEnum
	bounded  map[string]bool
}

func NewExtractor(opts Options) (*Extractor, error) {
	x := &Extractor{
		opts:     opts,
		registry: NewRegistry(opts),
		typedefs: NewTypedefParser(opts.CallingConventions),
		uiEnums:  make(map[string]UIEnum, len(opts.UIEnums)),
		bounded:  make(map[string]bool, len(opts.SeedEnums)),
	}
	for _, seed := range opts.SeedEnums {
		if err := x.registry.SeedEnum(seed.Name, seed.Source); err != nil {
			return nil, err
		}
		x.bounded[seed.Name] = true
	}
	if !x.registry.HasEnum(opts.ResultEnum) {
		return nil, errors.New(errors.CodeValidationError, "result enum "+opts.ResultEnum+" is not a seeded enum")
	}
	for _, ui := range opts.UIEnums {
		if !x.registry.HasEnum(ui.Enum) {
			return nil, errors.New(errors.CodeValidationError, "UI key enum "+ui.Enum+" is not a seeded enum")
		}
		x.uiEnums[ui.File] = ui
	}
	x.rules = []rule{
		{kind: "function", match: prefixed("EOS_DECLARE_FUNC"), handle: handleFunction},
		{kind: "callback", match: prefixed("EOS_DECLARE_CALLBACK"), handle: handleCallback},
		{kind: "struct", match: prefixed("EOS_STRUCT"), handle: handleStruct},
		{kind: "result_value", match: prefixed("EOS_RESULT_VALUE"), handle: handleResultValue},
		{kind: "enum_marker", match: prefixed("EOS_ENUM_START", "EOS_ENUM_END"), handle: handleEnumMarker},
		{kind: "enum_operators", match: prefixed("EOS_ENUM_BOOLEAN_OPERATORS"), handle: handleNothing},
		{kind: "enum", match: prefixed("EOS_ENUM"), handle: handleEnum},
		{kind: "define", match: prefixed("#define"), handle: handleDefine},
		{kind: "typedef", match: prefixed("typedef", "EOS_EXTERN_C"), handle: handleTypedef},
		{kind: "directive", match: prefixed(opts.DirectiveIgnore...), handle: handleDirective},
		{kind: "ui_key", match: prefixed(uiKeyMacroPrefix), handle: handleUIKey},
		{kind: "skip", match: blankOrLineComment, handle: handleNothing},
	}
	return x, nil
}

func (x *Extractor) Registry() *Registry {
	return x.registry
}

// ExtractAll processes files in the given order and stops at the first error.
func (x *Extractor) ExtractAll(files []SourceFile) error {
	for _, f := range files {
		if err := x.ExtractFile(f); err != nil {
			return err
		}
	}
	return nil
}

// ExtractFile scans one file. A block comment directly before a construct
// becomes that construct's doc comment.
func (x *Extractor) ExtractFile(f SourceFile) error {
	slog.Debug("extracting declarations", "file", f.Name, "lines", len(f.Lines))
	s := &scan{file: f.Name, lines: f.Lines}
	for s.next < len(s.lines) {
		line := s.lines[s.next]
		s.next++
		s.comment = ""

		if isCommentStart(line) {
			exhausted := false
			for isCommentStart(line) {
				s.next, s.comment = MergeComment(s.lines, s.next, line)
				if s.next >= len(s.lines) {
					exhausted = true
					break
				}
				line = s.lines[s.next]
				s.next++
			}
			if exhausted {
				break
			}
		}

		if err := x.dispatch(s, line); err != nil {
			return err
		}
	}
	return nil
}

func (x *Extractor) dispatch(s *scan, line string) error {
	lineNo := s.next
	for _, r := range x.rules {
		if !r.match(line) {
			continue
		}
		return locate(r.handle(x, s, line), s.file, lineNo)
	}
	return constructError(errors.CodeUnrecognizedLine, s.file, lineNo, "unrecognized or unsupported prefix: %q", line)
}

func handleNothing(x *Extractor, s *scan, line string) error {
	return nil
}

func handleDirective(x *Extractor, s *scan, line string) error {
	s.next, _ = MergeDirective(s.lines, s.next, line)
	return nil
}

func handleFunction(x *Extractor, s *scan, line string) error {
	next, fn, err := ParseFunction(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddFunction(fn)
}

func handleCallback(x *Extractor, s *scan, line string) error {
	next, cb, err := ParseCallback(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddCallback(cb)
}

func handleStruct(x *Extractor, s *scan, line string) error {
	next, st, err := ParseStruct(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddStruct(st)
}

func handleEnum(x *Extractor, s *scan, line string) error {
	next, en, err := ParseEnum(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddEnum(en)
}

func handleEnumMarker(x *Extractor, s *scan, line string) error {
	next, name, err := ParseEnumMarker(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	if !x.bounded[name] {
		return malformed(s.file, s.next, "enum marker for unexpected enum %s", name)
	}
	s.next = next
	return nil
}

func handleResultValue(x *Extractor, s *scan, line string) error {
	next, v, err := ParseResultValue(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddEnumValue(x.opts.ResultEnum, v)
}

func handleDefine(x *Extractor, s *scan, line string) error {
	next, def, err := ParseDefine(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddDefine(def)
}

func handleTypedef(x *Extractor, s *scan, line string) error {
	next, td, err := x.typedefs.Parse(s.lines, s.next, line, s.comment, s.file)
	if err != nil {
		return err
	}
	s.next = next
	return x.registry.AddTypedef(td)
}

func handleUIKey(x *Extractor, s *scan, line string) error {
	target, ok := x.uiEnums[s.file]
	if !ok {
		return malformed(s.file, s.next, "UI key macro outside a UI key header: %q", line)
	}
	v, counter, err := ParseUIKey(line, s.comment, s.file, s.next, target.AutoIndex, s.uiIndex)
	if err != nil {
		return err
	}
	s.uiIndex = counter
	return x.registry.AddEnumValue(target.Enum, v)
}
