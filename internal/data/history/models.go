package history

import (
	"time"

	"eosindex/internal/engine/parser"
)

const SchemaVersion = 1

// Run is one completed indexing run.
type Run struct {
	ID        string
	SDKDir    string
	Output    string
	Timestamp time.Time
	Duration  time.Duration
	FileCount int
	Counts    map[string]int
	Digest    string
}

// Total is the number of indexed declarations across every kind.
func (r Run) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// kindColumns maps declaration kinds to their count columns, in column order.
var kindColumns = []struct {
	kind   string
	column string
}{
	{parser.KindCallback, "callback_count"},
	{parser.KindDefine, "define_count"},
	{parser.KindEnum, "enum_count"},
	{parser.KindFunction, "function_count"},
	{parser.KindStruct, "struct_count"},
	{parser.KindTypedef, "typedef_count"},
}
