package parser

import (
	"regexp"
	"strings"
)

var (
	structStartRe = regexp.MustCompile(`^EOS_STRUCT\(([A-Za-z0-9_]+), *\($`)
	fieldRe       = regexp.MustCompile(`^(.*) ([A-Za-z0-9_]+)(\[[A-Za-z0-9_]+\])?;`)
	unionItemRe   = regexp.MustCompile(`^(.*) ([A-Za-z0-9_\[\]]+);`)
	unionCloseRe  = regexp.MustCompile(`^} *([A-Za-z0-9_]+);$`)
	recommendedRe = regexp.MustCompile(`(?:^|: )Set this to ([^.\r\n]+)(?:[.\r\n]|$)`)
)

const (
	structClose = "));"
	unionOpen   = "union"
)

// ParseStruct reads an EOS_STRUCT block up to its closing "));" line.
func ParseStruct(lines []string, next int, line, comment, file string) (int, Struct, error) {
	start := next
	m := structStartRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, Struct{}, malformed(file, start, "malformed struct declaration: %q", line)
	}
	name := m[1]

	fields := make([]Field, 0)
	pending := ""
	for next < len(lines) {
		lineNo := next + 1
		text := strings.TrimSpace(lines[next])
		next++

		switch {
		case text == "":
			continue
		case text == structClose:
			return next, Struct{Comment: comment, Fields: fields, Source: file, Name: name}, nil
		case text == unionOpen:
			var union Field
			var err error
			next, union, err = parseUnion(lines, next, comment, file)
			if err != nil {
				return next, Struct{}, err
			}
			fields = append(fields, union)
			pending = ""
		case isCommentStart(text):
			next, pending = MergeComment(lines, next, text)
		default:
			field, ok := parseField(text, pending)
			if !ok {
				return next, Struct{}, malformed(file, lineNo, "unexpected line in struct %s: %q", name, text)
			}
			fields = append(fields, field)
			pending = ""
		}
	}
	return next, Struct{}, malformed(file, start, "struct %s reached end of file without %q", name, structClose)
}

// parseUnion reads a union nested in a struct. next points at the line after
// the "union" marker, which must be the opening brace. The union carries the
// enclosing struct's comment; a comment placed just before it is dropped.
func parseUnion(lines []string, next int, comment, file string) (int, Field, error) {
	start := next
	if next >= len(lines) || strings.TrimSpace(lines[next]) != "{" {
		return next, Field{}, malformed(file, start, "union must be followed by '{'")
	}
	next++

	body := make([]string, 0)
	items := make([]Field, 0)
	pending := ""
	for next < len(lines) {
		lineNo := next + 1
		text := strings.TrimSpace(lines[next])
		next++

		switch {
		case text == "":
			continue
		case strings.HasPrefix(text, "}"):
			m := unionCloseRe.FindStringSubmatch(text)
			if m == nil {
				return next, Field{}, malformed(file, lineNo, "malformed union close: %q", text)
			}
			return next, Field{
				Kind:       FieldUnion,
				Comment:    comment,
				Name:       m[1],
				Type:       unionText(body),
				UnionItems: items,
			}, nil
		case isCommentStart(text):
			next, pending = MergeComment(lines, next, text)
		default:
			field, ok := parseUnionItem(text, pending)
			if !ok {
				return next, Field{}, malformed(file, lineNo, "unexpected line in union: %q", text)
			}
			body = append(body, text)
			items = append(items, field)
			pending = ""
		}
	}
	return next, Field{}, malformed(file, start, "union reached end of file without closing brace")
}

// unionText renders the body as "union", an empty line, the member lines and
// the closing brace. The opening brace is not part of it.
func unionText(body []string) string {
	var b strings.Builder
	b.WriteString("union\n")
	for _, line := range body {
		b.WriteString("\n")
		b.WriteString(line)
	}
	b.WriteString("\n}")
	return b.String()
}

// parseUnionItem keeps any array suffix on the member name, e.g. "Raw[8]".
func parseUnionItem(text, comment string) (Field, bool) {
	m := unionItemRe.FindStringSubmatch(text)
	if m == nil {
		return Field{}, false
	}
	typ := strings.TrimSpace(m[1])
	if typ == "" || typ == unionOpen {
		return Field{}, false
	}
	return Field{
		Kind:             FieldScalar,
		Comment:          comment,
		Name:             m[2],
		Type:             typ,
		RecommendedValue: RecommendedValue(comment),
	}, true
}

func parseField(text, comment string) (Field, bool) {
	m := fieldRe.FindStringSubmatch(text)
	if m == nil {
		return Field{}, false
	}
	typ := strings.TrimSpace(m[1])
	if typ == "" || typ == unionOpen {
		return Field{}, false
	}
	return Field{
		Kind:             FieldScalar,
		Comment:          comment,
		Name:             m[2],
		Type:             typ + m[3],
		ArraySuffix:      m[3],
		RecommendedValue: RecommendedValue(comment),
	}, true
}

// RecommendedValue extracts the value documented as "<label>: Set this to
// <value>." in a field comment, or "" when the comment has no such phrase.
// The phrase may also open the comment.
func RecommendedValue(comment string) string {
	m := recommendedRe.FindStringSubmatch(comment)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
