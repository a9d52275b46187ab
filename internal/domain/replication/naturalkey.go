package replication

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keyFolder strips combining marks so accented characters fold to their
// base letters before slugging ("Café" -> "Cafe").
var keyFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NaturalKey normalizes a candidate string to a stable lookup slug:
// diacritics folded, lowercased, runs of non-alphanumeric characters
// collapsed to a single dash, leading and trailing dashes trimmed.
// An empty result means the input carries no usable key.
func NaturalKey(s string) string {
	folded, _, err := transform.String(keyFolder, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
