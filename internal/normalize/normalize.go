package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var folder = cases.Fold()

// Name canonicalizes a player name for lookups: trimmed and case-folded so
// "sf", "SF" and "Sf" address the same player.
func Name(s string) string {
	return folder.String(strings.TrimSpace(s))
}

var titler = cases.Title(language.Und)

// Title renders a display name with an initial capital.
func Title(s string) string {
	return titler.String(strings.TrimSpace(s))
}
