package catalog

import "strings"

var transliteration = map[rune]string{
	'ا': "a", 'ب': "b", 'ت': "t", 'ث': "th", 'ج': "j", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "dh", 'ر': "r", 'ز': "z", 'س': "s", 'ش': "sh", 'ص': "ṣ",
	'ض': "ḍ", 'ط': "ṭ", 'ظ': "ẓ", 'ع': "ʿ", 'غ': "gh", 'ف': "f", 'ق': "q",
	'ك': "k", 'ل': "l", 'م': "m", 'ن': "n", 'ه': "h", 'و': "w", 'ي': "y",
}

// Transliterate maps Arabic letters to Latin one rune at a time. Runes
// without a mapping (vowel marks, hamza forms, spaces, digits) pass through.
func Transliterate(arabic string) string {
	var b strings.Builder
	b.Grow(len(arabic))
	for _, r := range arabic {
		if latin, ok := transliteration[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
