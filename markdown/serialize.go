package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/pdf2md/model"
)

// Serialize renders blocks as Markdown. Blocks are separated by a single
// blank line and the output ends with exactly one newline. An empty or
// all-separator sequence renders as the empty string.
func Serialize(blocks []model.Block) string {
	var result strings.Builder

	for _, b := range blocks {
		text := strings.Join(strings.Fields(b.Text), " ")
		if text == "" {
			continue
		}
		switch b.Kind {
		case model.BlockHeading:
			if result.Len() > 0 {
				result.WriteString("\n\n")
			}
			result.WriteString(strings.Repeat("#", clampLevel(b.Level)))
			result.WriteString(" ")
			result.WriteString(escapeHeading(text))

		case model.BlockParagraph:
			if result.Len() > 0 {
				result.WriteString("\n\n")
			}
			result.WriteString(escapeParagraph(text))
		}
		// A BlankSeparator adds nothing: every block boundary is
		// already one blank line.
	}

	if result.Len() == 0 {
		return ""
	}
	result.WriteString("\n")
	return result.String()
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > model.MaxHeadingLevel:
		return model.MaxHeadingLevel
	}
	return level
}

var (
	orderedMarker  = regexp.MustCompile(`^(\d{1,9})([.)])(\s|$)`)
	thematicBreak  = regexp.MustCompile(`^(?:(?:-\s*){3,}|(?:_\s*){3,}|(?:\*\s*){3,})$`)
	closingHashes  = regexp.MustCompile(`\s(#+)$`)
	setextUnderbar = regexp.MustCompile(`^=+\s*$`)
)

// escapeParagraph escapes body text that would otherwise start a
// heading, list, quote or rule, then escapes inline syntax.
func escapeParagraph(text string) string {
	text = escapeInline(text)

	if thematicBreak.MatchString(text) || setextUnderbar.MatchString(text) {
		return `\` + text
	}
	if m := orderedMarker.FindStringSubmatchIndex(text); m != nil {
		// "1. foo" becomes "1\. foo".
		return text[:m[3]] + `\` + text[m[3]:]
	}
	switch text[0] {
	case '#', '>':
		return `\` + text
	case '-', '+', '*':
		if len(text) == 1 || text[1] == ' ' {
			return `\` + text
		}
	}
	return text
}

// escapeHeading escapes inline syntax and a trailing run of '#' that
// would be read as a closing sequence.
func escapeHeading(text string) string {
	text = escapeInline(text)
	if m := closingHashes.FindStringSubmatchIndex(text); m != nil {
		return text[:m[2]] + `\` + text[m[2]:]
	}
	if strings.Trim(text, "#") == "" {
		return `\` + text
	}
	return text
}

// escapeInline escapes emphasis, code span, link and HTML syntax. Lone
// characters that cannot pair up are left alone.
func escapeInline(text string) string {
	runes := []rune(text)
	backticks := strings.Count(text, "`")
	stars := emphasisPairs(runes, '*')
	underscores := emphasisPairs(runes, '_')
	links := linkBrackets(runes)

	var sb strings.Builder
	sb.Grow(len(text))
	for i, r := range runes {
		prev, next := around(runes, i)

		escape := false
		switch r {
		case '\\':
			escape = isASCIIPunct(next)
		case '*':
			escape = stars && delimiter(r, prev, next)
		case '_':
			escape = underscores && delimiter(r, prev, next)
		case '`':
			escape = backticks > 1
		case '[', ']':
			escape = links[i]
		case '<':
			escape = isASCIILetter(next) || next == '/' || next == '!' || next == '?'
		}
		if escape {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// around returns the neighbours of runes[i], with spaces past either end.
func around(runes []rune, i int) (prev, next rune) {
	prev, next = ' ', ' '
	if i > 0 {
		prev = runes[i-1]
	}
	if i+1 < len(runes) {
		next = runes[i+1]
	}
	return prev, next
}

// flanking reports whether an emphasis character at this position could
// open or close emphasis. '_' inside a word can do neither.
func flanking(r, prev, next rune) (canOpen, canClose bool) {
	left := !isSpace(next) && (!isPunct(next) || isSpace(prev) || isPunct(prev))
	right := !isSpace(prev) && (!isPunct(prev) || isSpace(next) || isPunct(next))
	if r == '_' {
		return left && (!right || isPunct(prev)), right && (!left || isPunct(next))
	}
	return left, right
}

func delimiter(r, prev, next rune) bool {
	canOpen, canClose := flanking(r, prev, next)
	return canOpen || canClose
}

// emphasisPairs reports whether some delimiter that can open comes before
// another that can close.
func emphasisPairs(runes []rune, delim rune) bool {
	opener := false
	for i, r := range runes {
		if r != delim {
			continue
		}
		prev, next := around(runes, i)
		canOpen, canClose := flanking(r, prev, next)
		if opener && canClose {
			return true
		}
		if canOpen {
			opener = true
		}
	}
	return false
}

// linkBrackets marks the brackets of every [text] followed by '(', '['
// or ':', the forms that make links and link definitions.
func linkBrackets(runes []rune) map[int]bool {
	marked := map[int]bool{}
	var open []int
	for i, r := range runes {
		switch r {
		case '[':
			open = append(open, i)
		case ']':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if i+1 < len(runes) && strings.ContainsRune("([:", runes[i+1]) {
				marked[start] = true
				marked[i] = true
			}
		}
	}
	return marked
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isASCIIPunct(r rune) bool {
	return r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r)
}
