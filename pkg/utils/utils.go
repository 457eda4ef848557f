package utils

import (
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/kozaktomas/diacritics"
)

// NormalizeName folds a human name into a lookup key:
// diacritics removed, lowercase, no whitespace.
// "Dark Grey" and "dark  grey" both become "darkgrey".
func NormalizeName(s string) string {
	normalized, err := diacritics.Remove(s)
	if err != nil {
		// fallback to original string if diacritics removal fails
		normalized = s
	}

	return strings.Join(strings.Fields(strings.ToLower(normalized)), "")
}

func GetOkJSON() []byte {
	return []byte(`{"is_ok":true}`)
}

// FormatDuration renders at most two units, e.g. "1 minute 12 seconds"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}
