// Package phoenix extracts showtime data out of the Phoenix Leicester
// listing pages. The markup shifts shape every so often, so every field
// is located by probing an ordered chain of candidate selectors rather
// than one exact path; the chains live in configuration so they can be
// reviewed and updated without touching code.
package phoenix

import (
	"errors"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"phoenix-ical/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	BaseURL     = "https://www.phoenix.org.uk"
	WhatsOnPath = "/whats-on/"

	programmePathMarker = "/whats-on/programme/"
)

// ErrNotHTML is returned when a page body does not look like markup at
// all (an error page, an empty body, a JSON blob). Malformed-but-present
// markup is never an error, the extractors just come up empty.
var ErrNotHTML = errors.New("phoenix: response body does not look like html")

// Selectors are the fallback chains probed per field, first non-empty
// hit wins.
type Selectors struct {
	Block  []string `json:"block"`
	Title  []string `json:"title"`
	Date   []string `json:"date"`
	Time   []string `json:"time"`
	Screen []string `json:"screen"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Block:  []string{"article.event", "div.programme-tile", "li.whats-on-item", "div.event-block"},
		Title:  []string{"h3 a", "h2 a", ".event-title", "h3", "h2"},
		Date:   []string{".event-date", "time", ".date"},
		Time:   []string{".times a", ".event-time a", ".time", ".times"},
		Screen: []string{".screen", ".venue", ".location"},
	}
}

// RawEventBlock is one showing exactly as it appears in the markup:
// untyped text fragments, no validation. One listing tile with several
// showtimes expands to several blocks sharing title, date and screen.
type RawEventBlock struct {
	Title  string
	Date   string
	Time   string
	Screen string
	// absolute programme page link, "" when the tile has none
	ProgrammeHref string
}

func newDocument(markup string) (*goquery.Document, error) {
	if !strings.Contains(markup, "<") {
		return nil, ErrNotHTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, ErrNotHTML
	}
	return doc, nil
}

func firstText(block *goquery.Selection, chain []string) string {
	for _, sel := range chain {
		text := htmlutil.CleanText(block.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

var timeLabelRegex = regexp.MustCompile(`(?i)^\d{1,2}[.:]\d{2}\s*(?:am|pm)?$`)

// timeLabels probes the time chain and returns every showtime label the
// first matching selector yields. Labels that do not look like a
// clock reading ("Sold out", "Book") are dropped.
func timeLabels(block *goquery.Selection, chain []string) []string {
	for _, sel := range chain {
		var labels []string
		block.Find(sel).Each(func(_ int, s *goquery.Selection) {
			text := htmlutil.CleanText(s.Text())
			if timeLabelRegex.MatchString(text) {
				labels = append(labels, text)
			}
		})
		if len(labels) > 0 {
			return labels
		}
	}
	return nil
}

func programmeHref(block *goquery.Selection, base *url.URL) string {
	anchors := htmlutil.GetAnchors(block.Find("a[href]"), base)
	for _, a := range anchors {
		if strings.Contains(a.Href, programmePathMarker) {
			return a.Href
		}
	}
	return ""
}

// ParseListing locates the repeating event containers on one listing
// page and yields their raw field tuples. Containers that carry no
// usable fields at all (promotional tiles, filler) are skipped
// silently; containers that have some fields but miss title or
// date/time are counted in `skipped` for the run summary. Re-parsing
// the same markup always yields the same blocks.
func ParseListing(markup string, base *url.URL, sel Selectors) (blocks []RawEventBlock, skipped int, err error) {
	doc, err := newDocument(markup)
	if err != nil {
		return nil, 0, err
	}

	var containers *goquery.Selection
	for _, blockSel := range sel.Block {
		found := doc.Find(blockSel)
		if found.Length() > 0 {
			containers = found
			break
		}
	}
	if containers == nil {
		return nil, 0, nil
	}

	containers.Each(func(_ int, block *goquery.Selection) {
		title := firstText(block, sel.Title)
		date := firstText(block, sel.Date)
		times := timeLabels(block, sel.Time)
		screen := firstText(block, sel.Screen)

		if title == "" && date == "" && len(times) == 0 {
			// not an event block at all
			return
		}
		if title == "" || date == "" || len(times) == 0 {
			skipped++
			return
		}

		href := programmeHref(block, base)
		for _, t := range times {
			blocks = append(blocks, RawEventBlock{
				Title:         title,
				Date:          date,
				Time:          t,
				Screen:        screen,
				ProgrammeHref: href,
			})
		}
	})

	return blocks, skipped, nil
}

var nextLinkRegex = regexp.MustCompile(`(?i)\bnext\b`)

// FindNextPage returns the absolute url of the following listing page,
// or "" when the pagination ends.
func FindNextPage(markup string, base *url.URL) (string, error) {
	doc, err := newDocument(markup)
	if err != nil {
		return "", err
	}

	next := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !nextLinkRegex.MatchString(htmlutil.CleanText(s.Text())) {
			return true
		}
		anchors := htmlutil.GetAnchors(s, base)
		if len(anchors) > 0 && anchors[0].Href != "" {
			next = anchors[0].Href
			return false
		}
		return true
	})
	return next, nil
}

// FindProgrammeLinks collects every programme page linked from a
// listing page, absolute, deduplicated and sorted.
func FindProgrammeLinks(markup string, base *url.URL) ([]string, error) {
	doc, err := newDocument(markup)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	for _, a := range htmlutil.GetAnchors(doc.Find("a[href]"), base) {
		if strings.Contains(a.Href, programmePathMarker) {
			set[a.Href] = true
		}
	}

	links := make([]string, 0, len(set))
	for link := range set {
		links = append(links, link)
	}
	sort.Strings(links)
	return links, nil
}
