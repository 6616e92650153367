package expr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LIKE patterns of predicates. Both the native evaluator and the AWK
// generator match a LIKE through one anchored regex produced here, so a
// pattern behaves the same on both backends.
//
//   %      any run of characters, possibly empty
//   _      exactly one character
//   %[x]   the character x itself, ie 100%[%] matches "100%"
//
// Every other character is matched literally.

// LikeToRegex translates a LIKE pattern into an anchored regex, invalid utf8
// bytes of the pattern are dropped
func LikeToRegex(pattern string) string {
	buf := strings.Builder{}
	buf.WriteString("^")

	literal := func(c rune) {
		switch c {
		case '\\', '^', '[', ']':
			buf.WriteString(fmt.Sprintf("\\%c", c))
			break
		default:
			buf.WriteString(fmt.Sprintf("[%c]", c))
			break
		}
	}

	size := len(pattern)
	for pos := 0; pos < size; {
		c, width := utf8.DecodeRuneInString(pattern[pos:])
		if c == utf8.RuneError {
			pos++
			continue
		}

		switch c {
		case '%':
			if pos+1 < size && pattern[pos+1] == '[' {
				inner, sz := utf8.DecodeRuneInString(pattern[pos+2:])
				end := pos + 2 + sz
				if inner != utf8.RuneError && end < size && pattern[end] == ']' {
					literal(inner)
					pos = end + 1
					continue
				}
			}
			buf.WriteString(".*")
			break
		case '_':
			buf.WriteString(".")
			break
		default:
			literal(c)
			break
		}
		pos += width
	}

	buf.WriteString("$")
	return buf.String()
}
