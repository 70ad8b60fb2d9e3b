package phoenix

import (
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"phoenix-ical/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// films whose programme page carries no duration get the venue's usual
// slot length
const DefaultDuration = 120 * time.Minute

const maxDescriptionLength = 800

// Programme is the detail page for one film: shared metadata for every
// showing of it.
type Programme struct {
	Title       string
	Certificate string
	Description string
	Duration    time.Duration
}

var (
	durationRegex     = regexp.MustCompile(`(?i)Duration:\s*(\d+)\s*mins`)
	certificateRegex  = regexp.MustCompile(`(?i)Certificate:\s*([A-Z0-9+]{1,4})`)
	headingCertRegex  = regexp.MustCompile(`\b(U|PG|12A|12|15|18)\b`)
	trailingCertRegex = regexp.MustCompile(`\s+\b(U|PG|12A|12|15|18)\b$`)
)

// ParseProgramme extracts film metadata from a programme page. Every
// field degrades gracefully: a page that yields nothing still returns a
// usable Programme with the default duration.
func ParseProgramme(markup string) (Programme, error) {
	doc, err := newDocument(markup)
	if err != nil {
		return Programme{}, err
	}

	p := Programme{Duration: DefaultDuration}

	pageText := htmlutil.CleanText(doc.Text())

	if m := durationRegex.FindStringSubmatch(pageText); m != nil {
		mins, err := strconv.Atoi(m[1])
		if err == nil && mins > 0 {
			p.Duration = time.Duration(mins) * time.Minute
		}
	}

	if m := certificateRegex.FindStringSubmatch(pageText); m != nil {
		p.Certificate = m[1]
	}

	heading := doc.Find("h1, h2").First()
	if heading.Length() > 0 {
		title := htmlutil.CleanText(heading.Text())
		if p.Certificate == "" {
			// heading often shows the certificate after the title
			if m := headingCertRegex.FindStringSubmatch(title); m != nil {
				p.Certificate = m[1]
			}
		}
		// the certificate is re-attached to the summary in a uniform
		// format later, so it comes off the raw title here
		p.Title = trailingCertRegex.ReplaceAllString(title, "")
	}

	// first substantive paragraph; kept short to avoid giant ICS
	// fields. Both thresholds count characters, not bytes.
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := htmlutil.CleanText(s.Text())
		if utf8.RuneCountInString(text) > 40 {
			if utf8.RuneCountInString(text) > maxDescriptionLength {
				runes := []rune(text)
				text = string(runes[:maxDescriptionLength])
			}
			p.Description = text
			return false
		}
		return true
	})

	return p, nil
}
