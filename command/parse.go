package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses a command invocation from message text. An invocation is the
// prefix immediately followed by the command name, then optional arguments
// separated by whitespace.
func Parse(prefix, text string) (name string, args []string, ok bool) {
	if prefix == "" {
		return "", nil, false
	}
	text, ok = strings.CutPrefix(text, prefix)
	if !ok {
		return "", nil, false
	}
	// The name must immediately follow the prefix, so "> hype" is not an
	// invocation of hype.
	r, _ := utf8.DecodeRuneInString(text)
	if text == "" || isSpace(r) {
		return "", nil, false
	}
	f := strings.FieldsFunc(text, isSpace)
	if len(f) == 1 {
		return f[0], nil, true
	}
	return f[0], f[1:], true
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
