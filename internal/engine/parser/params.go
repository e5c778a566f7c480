package parser

import "strings"

// ExplodeParameters splits the text between a declaration's parentheses into
// parameters. The last whitespace-separated token of each comma segment is
// the name and everything before it the type. Pointer and array declarators
// glued to the name stay with the name; that heuristic is kept as-is.
func ExplodeParameters(text string) []Param {
	text = strings.TrimSpace(text)
	if text == "" || text == "void" {
		return []Param{}
	}
	segments := strings.Split(text, ",")
	params := make([]Param, 0, len(segments))
	for _, segment := range segments {
		tokens := strings.Fields(segment)
		if len(tokens) == 0 {
			params = append(params, Param{})
			continue
		}
		params = append(params, Param{
			Name: tokens[len(tokens)-1],
			Type: strings.Join(tokens[:len(tokens)-1], " "),
		})
	}
	return params
}
