package parser

import (
	"regexp"
	"strings"
)

var typedefRe = regexp.MustCompile(`^(EOS_EXTERN_C )?typedef (.+) (?:([A-Za-z0-9_]+)|(\(.*\* *([A-Za-z0-9_]+)\)\(.*\)));$`)

// TypedefParser resolves direct and function-pointer typedefs. Calling
// convention macros next to the pointer star are stripped from the shape.
type TypedefParser struct {
	conventions *regexp.Regexp
}

func NewTypedefParser(conventions []string) *TypedefParser {
	p := &TypedefParser{}
	quoted := make([]string, 0, len(conventions))
	for _, c := range conventions {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(c))
	}
	if len(quoted) > 0 {
		alt := strings.Join(quoted, "|")
		p.conventions = regexp.MustCompile(`\(\s*(?:` + alt + `)(?:\s+(?:` + alt + `))*\s*\*`)
	}
	return p
}

func (p *TypedefParser) Parse(lines []string, next int, line, comment, file string) (int, Typedef, error) {
	m := typedefRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return next, Typedef{}, malformed(file, next, "malformed typedef: %q", line)
	}
	def := Typedef{
		Comment: comment,
		Extern:  m[1] != "",
		Source:  file,
		Type:    strings.TrimSpace(m[2]),
	}
	if m[4] == "" {
		def.Name = m[3]
		return next, def, nil
	}

	def.Name = m[5]
	def.Type = def.Type + " " + p.pointerShape(m[4], def.Name)
	return next, def, nil
}

// pointerShape drops the declared name from "(* Name)(params)" and normalizes
// the calling convention away, leaving "(*)(params)".
func (p *TypedefParser) pointerShape(signature, name string) string {
	needle := name
	if strings.Contains(signature, " "+name) {
		needle = " " + name
	}
	shape := strings.Replace(signature, needle, "", 1)
	if p.conventions != nil {
		shape = p.conventions.ReplaceAllString(shape, "(*")
	}
	return shape
}
