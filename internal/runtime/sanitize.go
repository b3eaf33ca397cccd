package runtime

import (
	"strings"
	"unicode"
)

// MaxNicknameLength is the number of runes kept from a nickname.
const MaxNicknameLength = 64

// SanitizeNickname normalizes free-text nicknames without rejecting them:
// invalid UTF-8 is replaced, control characters (including ANSI escapes) are
// stripped so names cannot poison logs or terminals, surrounding space is
// trimmed and the result is cut to MaxNicknameLength runes.
func SanitizeNickname(input string) string {
	valid := strings.ToValidUTF8(input, "\uFFFD")

	var b strings.Builder
	b.Grow(len(valid))
	for _, r := range valid {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	clean := strings.TrimSpace(b.String())

	if runes := []rune(clean); len(runes) > MaxNicknameLength {
		clean = strings.TrimSpace(string(runes[:MaxNicknameLength]))
	}
	return clean
}
