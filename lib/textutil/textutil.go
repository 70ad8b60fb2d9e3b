package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// boilerplate the site occasionally prepends to film titles on
// listing tiles; certificate suffixes like "(15)" are meaningful
// and deliberately left alone.
var titlePrefixes = []string{
	"Film:",
	"Cinema:",
}

// CleanTitle collapses whitespace, trims the ends and strips known
// formatting noise off a film title. Returns "" if nothing survives.
func CleanTitle(title string) string {
	title = whitespaceRegex.ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(title, prefix) {
			title = strings.TrimSpace(title[len(prefix):])
		}
	}
	return title
}
