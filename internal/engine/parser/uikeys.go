package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var uiKeyRe = regexp.MustCompile(`^(EOS_UI_KEY[_A-Z]+)\(([A-Za-z0-9_]+), ([A-Za-z0-9_]+)(?:, (.+))?\)$`)

const (
	uiKeyEntry        = "EOS_UI_KEY_ENTRY"
	uiKeyEntryFirst   = "EOS_UI_KEY_ENTRY_FIRST"
	uiKeyConstantLast = "EOS_UI_KEY_CONSTANT_LAST"
	uiKeyMacroPrefix  = "EOS_UI_"
)

// ParseUIKey reads one UI key macro invocation. With autoIndex, entries may
// omit their value and take counter+1; EOS_UI_KEY_ENTRY_FIRST moves the counter
// to its explicit value. It returns the entry and the updated counter.
func ParseUIKey(line, comment, file string, lineNo int, autoIndex bool, counter int64) (EnumValue, int64, error) {
	m := uiKeyRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return EnumValue{}, counter, malformed(file, lineNo, "malformed UI key macro: %q", line)
	}
	macro, prefix, name, value := m[1], m[2], m[3], strings.TrimSpace(m[4])

	if value == "" {
		if !autoIndex {
			return EnumValue{}, counter, malformed(file, lineNo, "%s requires an explicit value in %s", macro, file)
		}
		if macro != uiKeyEntry && macro != uiKeyConstantLast {
			return EnumValue{}, counter, malformed(file, lineNo, "%s cannot omit its value", macro)
		}
		counter++
		value = strconv.FormatInt(counter, 10)
	}
	if autoIndex && macro == uiKeyEntryFirst {
		n, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return EnumValue{}, counter, malformed(file, lineNo, "%s value %q is not an integer", macro, value)
		}
		counter = n
	}

	return EnumValue{Comment: comment, Name: prefix + name, Value: value}, counter, nil
}
