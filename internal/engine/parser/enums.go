package parser

import (
	"eosindex/internal/core/errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	enumStartRe   = regexp.MustCompile(`^EOS_ENUM\(([A-Za-z0-9_]+), *$`)
	enumEntryRe   = regexp.MustCompile(`^([A-Za-z0-9_]+)(?: *= *([^,]+?))? *,?$`)
	enumMarkerRe  = regexp.MustCompile(`^EOS_ENUM_(?:START|END)\(([A-Za-z_]+)\);?$`)
	resultValueRe = regexp.MustCompile(`^EOS_RESULT_VALUE(?:_LAST)?\(([A-Za-z0-9_]+), ([x0-9A-F]+)\)$`)
)

const enumClose = ");"

// ParseEnum reads an EOS_ENUM block. Entries without an explicit value take
// the previous value plus one, starting from -1; that only works while the
// previous value is a plain decimal integer.
func ParseEnum(lines []string, next int, line, comment, file string) (int, Enum, error) {
	start := next
	m := enumStartRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, Enum{}, malformed(file, start, "malformed enum declaration: %q", line)
	}
	enum := Enum{Comment: comment, Name: m[1], Source: file, Values: make([]EnumValue, 0)}

	seen := make(map[string]bool)
	last := "-1"
	pending := ""
	for next < len(lines) {
		lineNo := next + 1
		text := strings.TrimSpace(lines[next])
		next++

		switch {
		case text == "":
			continue
		case text == enumClose:
			return next, enum, nil
		case isCommentStart(text):
			next, pending = MergeComment(lines, next, text)
			continue
		}

		entry := enumEntryRe.FindStringSubmatch(text)
		if entry == nil {
			return next, Enum{}, malformed(file, lineNo, "unexpected line in enum %s: %q", enum.Name, text)
		}
		name := entry[1]
		if seen[name] {
			return next, Enum{}, constructError(errors.CodeDuplicateDeclaration, file, lineNo,
				"duplicate value %s in enum %s", name, enum.Name)
		}
		seen[name] = true

		if value := strings.TrimSpace(entry[2]); value != "" {
			last = value
		} else {
			n, err := strconv.ParseInt(last, 10, 64)
			if err != nil {
				return next, Enum{}, malformed(file, lineNo,
					"enum %s value %s follows non-integer value %q and needs an explicit value", enum.Name, name, last)
			}
			last = strconv.FormatInt(n+1, 10)
		}
		enum.Values = append(enum.Values, EnumValue{Comment: pending, Name: name, Value: last})
		pending = ""
	}
	return next, Enum{}, malformed(file, start, "enum %s reached end of file without %q", enum.Name, enumClose)
}

// ParseEnumMarker reads an EOS_ENUM_START/EOS_ENUM_END line and returns the
// enum name it bounds.
func ParseEnumMarker(lines []string, next int, line, comment, file string) (int, string, error) {
	m := enumMarkerRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, "", malformed(file, next, "malformed enum marker: %q", line)
	}
	return next, m[1], nil
}

// ParseResultValue reads one EOS_RESULT_VALUE entry.
func ParseResultValue(lines []string, next int, line, comment, file string) (int, EnumValue, error) {
	m := resultValueRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, EnumValue{}, malformed(file, next, "malformed result value: %q", line)
	}
	return next, EnumValue{Comment: comment, Name: m[1], Value: m[2]}, nil
}
