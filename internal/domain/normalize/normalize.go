// Package normalize canonicalizes human names and free-form strings into
// comparable keys for matching and deduplication.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// stripMarks decomposes and drops combining diacritical marks.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	collapseSpace = regexp.MustCompile(`\s+`)
	collapseWS    = regexp.MustCompile(`[\s_]+`)
	titleCaser    = cases.Title(language.Und)
)

// Repair cleans a string without changing its case: strips byte-order-mark
// remnants and non-breaking spaces, drops control characters other than
// tab and newline, repairs the lone "?" left behind by a failed "č"
// decode, and removes combining diacritical marks. Word spacing is
// collapsed to single spaces.
func Repair(s string) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' && r != '\n' {
			continue
		}
		b.WriteRune(r)
	}
	s = repairQuestionMarks(b.String())

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	return strings.TrimSpace(collapseSpace.ReplaceAllString(s, " "))
}

// Key produces the normalized comparison key: Repair, lower-cased, with
// whitespace and underscores collapsed to a single hyphen and leading and
// trailing hyphens trimmed. Key is idempotent.
func Key(s string) string {
	s = strings.ToLower(Repair(s))
	s = collapseWS.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// repairQuestionMarks replaces an isolated "?" between two letters with
// "c". An upstream decode that failed on "č" leaves exactly this shape
// ("Poga?ar").
func repairQuestionMarks(s string) string {
	rs := []rune(s)
	for i := 1; i < len(rs)-1; i++ {
		if rs[i] == '?' && unicode.IsLetter(rs[i-1]) && unicode.IsLetter(rs[i+1]) {
			rs[i] = 'c'
		}
	}
	return string(rs)
}

// ReorderSurnameFirst detects names written as "SURNAME Given" (an
// all-caps token block followed by title-case tokens) and reorders them to
// "Given Surname", re-casing the surname to title case. Strings without
// that shape are returned unchanged.
func ReorderSurnameFirst(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return s
	}

	// The first token that is not all-uppercase and starts with an
	// uppercase letter marks the start of the given-name span.
	givenStart := -1
	for i, tok := range tokens {
		if isAllUpper(tok) {
			continue
		}
		if unicode.IsUpper(firstLetter(tok)) {
			givenStart = i
			break
		}
	}
	if givenStart <= 0 {
		return s
	}

	surname := make([]string, 0, givenStart)
	for _, tok := range tokens[:givenStart] {
		surname = append(surname, titleCaser.String(strings.ToLower(tok)))
	}

	return strings.Join(append(tokens[givenStart:], surname...), " ")
}

// isAllUpper reports whether every letter in the token is uppercase. A
// token with no letters does not count as uppercase.
func isAllUpper(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return hasLetter
}

func firstLetter(tok string) rune {
	for _, r := range tok {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}
