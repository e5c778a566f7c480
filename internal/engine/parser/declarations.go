package parser

import (
	"regexp"
	"strings"
)

var (
	defineRe   = regexp.MustCompile(`^#define[ \t]+([^ \t(]+)(\([^()]*\))?[ \t]*([\s\S]*)$`)
	functionRe = regexp.MustCompile(`^EOS_DECLARE_FUNC\(([^)]+)\) *([A-Za-z0-9_]+)\((.*)\);$`)
	callbackRe = regexp.MustCompile(`^(?:EOS_DECLARE_CALLBACK\(|EOS_DECLARE_CALLBACK_RETVALUE\(([^,]+), *)([A-Za-z0-9_]+),?(.*)\);$`)
)

// voidReturn is the return type of callbacks declared without one.
const voidReturn = "void"

// ParseDefine reads an object-like or function-like #define, including any
// continuation lines.
func ParseDefine(lines []string, next int, line, comment, file string) (int, Define, error) {
	start := next
	next, text := MergeDirective(lines, next, line)
	m := defineRe.FindStringSubmatch(text)
	if m == nil {
		return next, Define{}, malformed(file, start, "malformed #define: %q", text)
	}
	def := Define{
		Comment:    comment,
		Expression: strings.TrimSpace(m[3]),
		Name:       strings.TrimSpace(m[1]),
		Source:     file,
	}
	if m[2] != "" {
		params := strings.TrimSpace(m[2])
		def.Parameters = &params
	}
	return next, def, nil
}

// ParseFunction reads a one-line EOS_DECLARE_FUNC prototype.
func ParseFunction(lines []string, next int, line, comment, file string) (int, Function, error) {
	m := functionRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, Function{}, malformed(file, next, "malformed function declaration: %q", line)
	}
	return next, Function{
		Comment:    comment,
		Name:       strings.TrimSpace(m[2]),
		Params:     ExplodeParameters(m[3]),
		ReturnType: strings.TrimSpace(m[1]),
		Source:     file,
	}, nil
}

// ParseCallback reads a one-line EOS_DECLARE_CALLBACK or
// EOS_DECLARE_CALLBACK_RETVALUE signature.
func ParseCallback(lines []string, next int, line, comment, file string) (int, Callback, error) {
	m := callbackRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, Callback{}, malformed(file, next, "malformed callback declaration: %q", line)
	}
	ret := strings.TrimSpace(m[1])
	if ret == "" {
		ret = voidReturn
	}
	return next, Callback{
		Name:       strings.TrimSpace(m[2]),
		Comment:    comment,
		Params:     ExplodeParameters(m[3]),
		ReturnType: ret,
		Source:     file,
	}, nil
}
