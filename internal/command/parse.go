package command

import (
	"strings"
	"unicode"
)

// Invocation is a parsed command message.
type Invocation struct {
	Name string
	Args []string
}

// Parse splits content into a command name and its arguments. The name
// is matched case-insensitively; double-quoted arguments may contain
// spaces. It reports false when content doesn't start with prefix.
func Parse(prefix, content string) (Invocation, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(content), prefix)
	if !ok || rest == "" || unicode.IsSpace(rune(rest[0])) {
		return Invocation{}, false
	}
	fields := tokenize(rest)
	return Invocation{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// tokenize splits on whitespace, keeping double-quoted runs together. An
// unterminated quote runs to the end of the input.
func tokenize(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case unicode.IsSpace(r) && !quoted:
			if pending {
				out = append(out, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		out = append(out, cur.String())
	}
	return out
}
