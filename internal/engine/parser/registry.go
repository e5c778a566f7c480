package parser

import (
	"eosindex/internal/core/errors"
	"log/slog"
)

// table keeps records in insertion order with a unique name index.
type table[T any] struct {
	items []T
	index map[string]int
}

func newTable[T any]() *table[T] {
	return &table[T]{index: make(map[string]int)}
}

func (t *table[T]) add(name string, v T) bool {
	if _, ok := t.index[name]; ok {
		return false
	}
	t.index[name] = len(t.items)
	t.items = append(t.items, v)
	return true
}

func (t *table[T]) has(name string) bool {
	_, ok := t.index[name]
	return ok
}

func (t *table[T]) list() []T {
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

// Registry owns every declaration extracted during one run. Each kind is
// keyed by declared name and names are unique within a kind.
type Registry struct {
	defines   *table[Define]
	functions *table[Function]
	callbacks *table[Callback]
	structs   *table[Struct]
	typedefs  *table[Typedef]
	enums     *table[*Enum]

	enumValues   map[string]map[string]bool
	defineIgnore map[string]bool
	retired      map[string]bool
}

func NewRegistry(opts Options) *Registry {
	r := &Registry{
		defines:      newTable[Define](),
		functions:    newTable[Function](),
		callbacks:    newTable[Callback](),
		structs:      newTable[Struct](),
		typedefs:     newTable[Typedef](),
		enums:        newTable[*Enum](),
		enumValues:   make(map[string]map[string]bool),
		defineIgnore: toSet(opts.DefineIgnore),
		retired:      toSet(opts.RetiredNames),
	}
	return r
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func duplicate(kind, name string) error {
	err := &errors.DomainError{
		Code:    errors.CodeDuplicateDeclaration,
		Message: "duplicate " + kind + " " + name,
	}
	return err.WithContext(errors.CtxName, name)
}

// AddDefine registers a define. Ignored names are dropped; retired names are
// always rejected.
func (r *Registry) AddDefine(d Define) error {
	if r.retired[d.Name] {
		err := &errors.DomainError{
			Code:    errors.CodeDuplicateDeclaration,
			Message: "retired name " + d.Name + " must not be declared",
		}
		return err.WithContext(errors.CtxName, d.Name)
	}
	if r.defineIgnore[d.Name] {
		slog.Debug("ignoring define", "name", d.Name, "file", d.Source)
		return nil
	}
	if !r.defines.add(d.Name, d) {
		return duplicate("define", d.Name)
	}
	return nil
}

func (r *Registry) AddFunction(f Function) error {
	if !r.functions.add(f.Name, f) {
		return duplicate("function", f.Name)
	}
	return nil
}

func (r *Registry) AddCallback(c Callback) error {
	if !r.callbacks.add(c.Name, c) {
		return duplicate("callback", c.Name)
	}
	return nil
}

func (r *Registry) AddStruct(s Struct) error {
	if !r.structs.add(s.Name, s) {
		return duplicate("struct", s.Name)
	}
	return nil
}

func (r *Registry) AddTypedef(t Typedef) error {
	if !r.typedefs.add(t.Name, t) {
		return duplicate("typedef", t.Name)
	}
	return nil
}

// AddEnum registers a complete enum block.
func (r *Registry) AddEnum(e Enum) error {
	entry := e
	if entry.Values == nil {
		entry.Values = make([]EnumValue, 0)
	}
	if !r.enums.add(entry.Name, &entry) {
		return duplicate("enum", entry.Name)
	}
	names := make(map[string]bool, len(entry.Values))
	for _, v := range entry.Values {
		names[v.Name] = true
	}
	r.enumValues[entry.Name] = names
	return nil
}

// SeedEnum registers an empty enum that later receives values one at a time.
func (r *Registry) SeedEnum(name, source string) error {
	return r.AddEnum(Enum{Name: name, Source: source})
}

// AddEnumValue appends a value to a registered enum.
func (r *Registry) AddEnumValue(enum string, v EnumValue) error {
	if !r.enums.has(enum) {
		err := &errors.DomainError{
			Code:    errors.CodeNotFound,
			Message: "enum " + enum + " is not registered",
		}
		return err.WithContext(errors.CtxName, enum)
	}
	if r.enumValues[enum][v.Name] {
		return duplicate("value in enum "+enum, v.Name)
	}
	r.enumValues[enum][v.Name] = true
	e := r.enums.items[r.enums.index[enum]]
	e.Values = append(e.Values, v)
	return nil
}

func (r *Registry) HasEnum(name string) bool {
	return r.enums.has(name)
}

func (r *Registry) Defines() []Define { return r.defines.list() }
func (r *Registry) Functions() []Function { return r.functions.list() }
func (r *Registry) Callbacks() []Callback { return r.callbacks.list() }
func (r *Registry) Structs() []Struct { return r.structs.list() }
func (r *Registry) Typedefs() []Typedef { return r.typedefs.list() }

// Enums returns copies of every enum, values included.
func (r *Registry) Enums() []Enum {
	out := make([]Enum, 0, len(r.enums.items))
	for _, e := range r.enums.items {
		copied := *e
		copied.Values = make([]EnumValue, len(e.Values))
		copy(copied.Values, e.Values)
		out = append(out, copied)
	}
	return out
}

// Counts reports the number of records per declaration kind.
func (r *Registry) Counts() map[string]int {
	return map[string]int{
		KindDefine:   len(r.defines.items),
		KindFunction: len(r.functions.items),
		KindCallback: len(r.callbacks.items),
		KindStruct:   len(r.structs.items),
		KindTypedef:  len(r.typedefs.items),
		KindEnum:     len(r.enums.items),
	}
}

const (
	KindDefine   = "define"
	KindFunction = "function"
	KindCallback = "callback"
	KindStruct   = "struct"
	KindTypedef  = "typedef"
	KindEnum     = "enum"
)
