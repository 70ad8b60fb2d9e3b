// Package builder runs the whole pipeline: fetch every listing page,
// extract and normalize showings, enrich them from programme pages,
// then finalize into an ordered event set ready for encoding. Pages are
// processed strictly one at a time; the spacing between requests is a
// politeness constraint of the target site, not a performance knob.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"phoenix-ical/lib/calendar"
	"phoenix-ical/lib/fetch"
	"phoenix-ical/lib/restyutil"
	"phoenix-ical/lib/scrapers/phoenix"
	"phoenix-ical/lib/timezone"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/builder")

// ErrAllPagesFailed means not one listing page produced data. The run
// fails outright so a previously good calendar is never overwritten
// with an empty one.
var ErrAllPagesFailed = errors.New("builder: all listing pages failed")

type Config struct {
	BaseURL               string            `json:"base_url"`
	Pages                 []string          `json:"pages"`
	FollowPagination      bool              `json:"follow_pagination"`
	MaxPages              int               `json:"max_pages"`
	FetchProgrammeDetails bool              `json:"fetch_programme_details"`
	UserAgent             string            `json:"user_agent"`
	TimeoutMs             int               `json:"timeout_ms"`
	MaxRetries            int               `json:"max_retries"`
	BaseDelayMs           int               `json:"base_delay_ms"`
	PolitenessDelayMs     int               `json:"politeness_delay_ms"`
	Selectors             phoenix.Selectors `json:"selectors"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:               phoenix.BaseURL,
		Pages:                 []string{phoenix.WhatsOnPath},
		FollowPagination:      true,
		MaxPages:              10,
		FetchProgrammeDetails: true,
		UserAgent:             "PhoenixICalBot/1.0 (+github.com/yayadrian/phoenix-ical)",
		TimeoutMs:             45_000,
		MaxRetries:            3,
		BaseDelayMs:           1500,
		PolitenessDelayMs:     1500,
		Selectors:             phoenix.DefaultSelectors(),
	}
}

// PageStatus is the per-page line of the run summary.
type PageStatus struct {
	URL     string
	Err     error
	Events  int
	Skipped int
}

type Result struct {
	Events []calendar.Event
	Pages  []PageStatus
	// blocks dropped for missing/unparseable mandatory fields
	SoftSkips int
	// programme detail pages that could not be fetched or parsed
	DetailFailures int
	FailedPages    int
}

type Service struct {
	cfg     Config
	base    *url.URL
	fetcher *fetch.Client
	// reference point for year inference, swappable in tests
	now func() time.Time
}

// NewService validates the configuration and builds the pipeline.
// `dump` may be nil; when set, every HTTP exchange is mirrored there.
func NewService(cfg Config, dump restyutil.InstrumentOutput) (*Service, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("builder: base_url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("builder: invalid base_url: %w", err)
	}
	if len(cfg.Pages) == 0 {
		return nil, fmt.Errorf("builder: at least one listing page is required")
	}
	if cfg.TimeoutMs <= 0 {
		return nil, fmt.Errorf("builder: timeout_ms must be positive, got %d", cfg.TimeoutMs)
	}

	fetcher, err := fetch.NewClient(fetch.Options{
		UserAgent:       cfg.UserAgent,
		Timeout:         time.Duration(cfg.TimeoutMs) * time.Millisecond,
		MaxRetries:      cfg.MaxRetries,
		BaseDelay:       time.Duration(cfg.BaseDelayMs) * time.Millisecond,
		PolitenessDelay: time.Duration(cfg.PolitenessDelayMs) * time.Millisecond,
		Instrument:      dump,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:     cfg,
		base:    base,
		fetcher: fetcher,
		now:     timezone.Now,
	}, nil
}

func (s *Service) resolve(page string) string {
	ref, err := url.Parse(page)
	if err != nil {
		return page
	}
	return s.base.ResolveReference(ref).String()
}

func (s *Service) maxPages() int {
	if s.cfg.MaxPages > 0 {
		return s.cfg.MaxPages
	}
	return len(s.cfg.Pages)
}

// Run executes the pipeline. A page-level failure is recorded and the
// run moves on; only when every page fails does Run return
// ErrAllPagesFailed. The returned Result is valid either way, so the
// summary can always be rendered.
func (s *Service) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	now := s.now()

	queue := make([]string, 0, len(s.cfg.Pages))
	queued := map[string]bool{}
	for _, page := range s.cfg.Pages {
		link := s.resolve(page)
		if !queued[link] {
			queued[link] = true
			queue = append(queue, link)
		}
	}

	var result Result
	var events []calendar.Event

	for i := 0; i < len(queue) && i < s.maxPages(); i++ {
		pageURL := queue[i]
		status := PageStatus{URL: pageURL}

		markup, err := s.fetcher.Get(ctx, pageURL)
		if err != nil {
			slog.ErrorContext(ctx, "listing page unavailable", "url", pageURL, "err", err)
			status.Err = err
			result.FailedPages++
			result.Pages = append(result.Pages, status)
			continue
		}

		blocks, skipped, err := phoenix.ParseListing(markup, s.base, s.cfg.Selectors)
		if err != nil {
			slog.ErrorContext(ctx, "listing page unreadable", "url", pageURL, "err", err)
			status.Err = err
			result.FailedPages++
			result.Pages = append(result.Pages, status)
			continue
		}

		status.Skipped = skipped
		result.SoftSkips += skipped
		for _, block := range blocks {
			ev, ok := phoenix.Normalize(block, now)
			if !ok {
				status.Skipped++
				result.SoftSkips++
				continue
			}
			events = append(events, ev)
			status.Events++
		}
		result.Pages = append(result.Pages, status)

		if s.cfg.FollowPagination {
			next, err := phoenix.FindNextPage(markup, s.base)
			if err == nil && next != "" && !queued[next] {
				queued[next] = true
				queue = append(queue, next)
			}
		}
	}

	if result.FailedPages == len(result.Pages) {
		return result, ErrAllPagesFailed
	}

	if s.cfg.FetchProgrammeDetails {
		s.enrich(ctx, events, &result)
	}

	result.Events = calendar.Finalize(events)
	return result, nil
}

// enrich fetches each distinct programme page once and folds its
// metadata into the showings that link to it: end time from duration,
// certificate onto the summary, a short description. Detail failures
// are soft, the listing-derived fields stand on their own.
func (s *Service) enrich(ctx context.Context, events []calendar.Event, result *Result) {
	links := map[string]bool{}
	for _, ev := range events {
		if ev.URL != "" {
			links[ev.URL] = true
		}
	}

	details := map[string]phoenix.Programme{}
	for _, ev := range events {
		if ev.URL == "" || !links[ev.URL] {
			continue
		}
		// each link fetched once, failed or not
		links[ev.URL] = false

		markup, err := s.fetcher.Get(ctx, ev.URL)
		if err != nil {
			slog.WarnContext(ctx, "programme page unavailable", "url", ev.URL, "err", err)
			result.DetailFailures++
			continue
		}
		p, err := phoenix.ParseProgramme(markup)
		if err != nil {
			slog.WarnContext(ctx, "programme page unreadable", "url", ev.URL, "err", err)
			result.DetailFailures++
			continue
		}
		details[ev.URL] = p
	}

	for i := range events {
		p, ok := details[events[i].URL]
		if !ok {
			continue
		}
		events[i].End = events[i].Start.Add(p.Duration)
		suffix := fmt.Sprintf("(%s)", p.Certificate)
		if p.Certificate != "" && !strings.HasSuffix(events[i].Title, suffix) {
			events[i].Title = events[i].Title + " " + suffix
		}
		if p.Description != "" {
			events[i].Description = p.Description
		}
	}
}
