package parser

import (
	"strings"
)

// MergeComment absorbs the block comment that starts on line. next is the
// index of the physical line after line. It returns the index after the line
// holding the terminator and the comment text with delimiters and leading
// asterisks removed. Running out of input returns what was absorbed.
func MergeComment(lines []string, next int, line string) (int, string) {
	rest := strings.TrimPrefix(strings.TrimSpace(line), "/*")
	var text string
	for {
		if end := strings.Index(rest, "*/"); end >= 0 {
			last := strings.TrimRight(strings.TrimSpace(rest[:end]), "*")
			text = appendCommentLine(text, cleanCommentLine(last))
			return next, strings.TrimRight(text, "\n")
		}
		text = appendCommentLine(text, cleanCommentLine(rest))
		if next >= len(lines) {
			return next, strings.TrimRight(text, "\n")
		}
		rest = lines[next]
		next++
	}
}

func cleanCommentLine(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "*"))
}

func appendCommentLine(text, content string) string {
	if text == "" {
		return content
	}
	return text + "\n" + content
}

// MergeDirective joins a backslash-continued preprocessor directive into one
// logical line. Continuation markers are dropped and line breaks kept.
func MergeDirective(lines []string, next int, line string) (int, string) {
	var b strings.Builder
	for strings.HasSuffix(line, "\\") {
		b.WriteString(strings.TrimSuffix(line, "\\"))
		b.WriteByte('\n')
		if next >= len(lines) {
			return next, strings.TrimRight(b.String(), "\n")
		}
		line = lines[next]
		next++
	}
	b.WriteString(line)
	return next, b.String()
}

func isCommentStart(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "/*")
}

func isLineComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "//")
}

// SplitLines splits raw file content into physical lines, dropping the
// terminators (including a trailing carriage return).
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
