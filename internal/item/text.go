package item

import "strings"

// SectionSign prefixes legacy formatting codes.
const SectionSign = '§'

const colorCodes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRrXx"

// Colorize translates '&'-prefixed formatting codes into section-sign codes.
// A '&' not followed by a known code is kept.
func Colorize(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	rs := []rune(s)
	for i := 0; i < len(rs)-1; i++ {
		if rs[i] == '&' && strings.ContainsRune(colorCodes, rs[i+1]) {
			rs[i] = SectionSign
			rs[i+1] = toLower(rs[i+1])
		}
	}
	return string(rs)
}

// StripColor removes section-sign formatting codes.
func StripColor(s string) string {
	if !strings.ContainsRune(s, SectionSign) {
		return s
	}
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] == SectionSign && i+1 < len(rs) && strings.ContainsRune(colorCodes, rs[i+1]) {
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
