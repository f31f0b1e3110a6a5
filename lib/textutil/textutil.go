package textutil

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParsePercent parses figures as printed on fund pages: "12,5%", "-3,1 %",
// "8.2". a lone "-" is how the site renders "no data" and reads as 0.
func ParsePercent(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "-" {
		return 0, nil
	}
	text = strings.ReplaceAll(text, ",", ".")
	text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
	return strconv.ParseFloat(text, 64)
}

// RemovePrefix strips `prefix` and the single separator character that
// follows it from `text`. it only applies when `text` starts with exactly `prefix`,
// otherwise ok is false and the caller keeps whatever it had.
func RemovePrefix(prefix, text string) (string, bool) {
	if !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	if rest == "" {
		return "", true
	}
	_, size := utf8.DecodeRuneInString(rest)
	return rest[size:], true
}
