// Package japanese provides script classification and width/kana
// normalization helpers used by the prediction engine.
package japanese

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// ScriptType classifies a string by the script of its runes.
type ScriptType int

const (
	UnknownScript ScriptType = iota
	Hiragana
	Katakana
	Kanji
	Number
	Alphabet
)

func runeScript(r rune) ScriptType {
	switch {
	case r >= 0x3041 && r <= 0x309F:
		return Hiragana
	case (r >= 0x30A1 && r <= 0x30FF) || (r >= 0x31F0 && r <= 0x31FF) || r == 0xFF70 ||
		(r >= 0xFF66 && r <= 0xFF9D):
		return Katakana
	case (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF):
		return Kanji
	case (r >= '0' && r <= '9') || (r >= 0xFF10 && r <= 0xFF19):
		return Number
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= 0xFF21 && r <= 0xFF3A) || (r >= 0xFF41 && r <= 0xFF5A):
		return Alphabet
	default:
		return UnknownScript
	}
}

// GetScriptType returns the script shared by every rune of s, or
// UnknownScript when s is empty or mixes scripts. The prolonged sound mark
// "ー" is skipped wherever it appears, so it never breaks a run.
func GetScriptType(s string) ScriptType {
	result := UnknownScript
	for _, r := range s {
		if r == 'ー' || r == 0x30FC {
			continue
		}
		t := runeScript(r)
		if result == UnknownScript {
			result = t
			continue
		}
		if t != result {
			return UnknownScript
		}
	}
	return result
}

// FirstScriptType classifies only the first rune of s.
func FirstScriptType(s string) ScriptType {
	if s == "" {
		return UnknownScript
	}
	r, _ := utf8.DecodeRuneInString(s)
	return runeScript(r)
}

// LastScriptType classifies only the last rune of s.
func LastScriptType(s string) ScriptType {
	if s == "" {
		return UnknownScript
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return runeScript(r)
}

// CharsLen returns the number of runes in s. Costs and trigger thresholds
// are all defined over rune counts, not bytes.
func CharsLen(s string) int { return utf8.RuneCountInString(s) }

// KatakanaToHiragana converts full-width katakana runes to hiragana,
// leaving everything else intact.
func KatakanaToHiragana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x30A1 && r <= 0x30F6 {
			r -= 0x60
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FullWidthToHalfWidth narrows full-width runes; used to normalize
// committed number candidates before the zero-query table lookup.
func FullWidthToHalfWidth(s string) string { return width.Narrow.String(s) }

// HalfWidthASCIIToFullWidthASCII widens ASCII runes; used by the English
// aggregator in full-width input mode.
func HalfWidthASCIIToFullWidthASCII(s string) string { return width.Widen.String(s) }

// IsArabicNumber reports whether s consists only of half- or full-width
// arabic digits.
func IsArabicNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 0xFF10 || r > 0xFF19) {
			return false
		}
	}
	return true
}

// IsUpperASCII reports whether s is non-empty and consists only of
// upper-case ASCII letters.
func IsUpperASCII(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r >= utf8.RuneSelf || r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// IsCapitalizedASCII reports whether s is at least two runes long and starts
// with one upper-case ASCII letter followed only by lower-case ASCII letters.
func IsCapitalizedASCII(s string) bool {
	if CharsLen(s) < 2 {
		return false
	}
	for i, r := range s {
		if r >= utf8.RuneSelf {
			return false
		}
		if i == 0 {
			if r < 'A' || r > 'Z' {
				return false
			}
			continue
		}
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// CapitalizeASCII upper-cases the first rune and lower-cases the rest.
func CapitalizeASCII(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
