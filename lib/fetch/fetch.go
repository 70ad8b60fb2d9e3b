package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"phoenix-ical/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/fetch")

// Kind classifies a fetch failure once its retry budget is spent.
type Kind int

const (
	KindTimeout Kind = iota
	KindConnection
	KindHTTPStatus
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindHTTPStatus:
		return "http status"
	case KindMalformed:
		return "malformed response"
	}
	return "unknown"
}

type Error struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Kind, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Clock abstracts time for the rate limiter so tests can drive the
// politeness/backoff waits with a fake.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

type Options struct {
	UserAgent string
	// per-attempt request deadline, must be > 0
	Timeout time.Duration
	// extra attempts after the first, >= 0
	MaxRetries int
	// linear backoff unit, attempt n waits n*BaseDelay
	BaseDelay time.Duration
	// minimum spacing between any two outbound requests across the
	// whole run, retries and new URLs alike
	PolitenessDelay time.Duration
	// nil defaults to the system clock
	Clock Clock
	// optional sink for HTTP exchange dumps, nil disables
	Instrument restyutil.InstrumentOutput
}

// Client is a polite, retrying HTTP GET client. It owns the only piece
// of shared mutable state in a pipeline run: the time of the last
// outbound request. Not safe for concurrent use, which is the point —
// requests to the venue's site are strictly sequential.
type Client struct {
	http        *resty.Client
	clock       Clock
	opts        Options
	lastRequest time.Time
}

func NewClient(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("fetch: timeout must be positive, got %s", opts.Timeout)
	}
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("fetch: max retries must not be negative, got %d", opts.MaxRetries)
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	restyutil.InstrumentClient(client, tracer, opts.Instrument)

	return &Client{
		http:  client,
		clock: clock,
		opts:  opts,
	}, nil
}

// statuses worth retrying; anything else non-2xx is treated as a
// permanent answer from the server
var retriableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Get fetches the url, honoring the politeness delay before every
// attempt and retrying transient failures with linear backoff. The
// returned error, if any, is always a *Error.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()

	var lastErr *Error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.opts.BaseDelay
			slog.DebugContext(
				ctx, "retrying fetch",
				"url", url,
				"attempt", attempt,
				"backoff", backoff,
			)
			c.clock.Sleep(backoff)
		}
		c.waitPoliteness()

		res, err := c.http.R().SetContext(ctx).Get(url)
		c.lastRequest = c.clock.Now()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return "", &Error{Kind: KindConnection, URL: url, Err: err}
			}
			lastErr = &Error{Kind: classify(err), URL: url, Err: err}
			continue
		}

		status := res.StatusCode()
		if status >= 200 && status < 300 {
			body := res.String()
			if body == "" {
				return "", &Error{Kind: KindMalformed, URL: url, Status: status}
			}
			return body, nil
		}

		lastErr = &Error{Kind: KindHTTPStatus, URL: url, Status: status}
		if !retriableStatus[status] {
			return "", lastErr
		}
		slog.WarnContext(ctx, "retriable http status", "url", url, "status", status)
	}

	return "", lastErr
}

func classify(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindConnection
}

func (c *Client) waitPoliteness() {
	if c.opts.PolitenessDelay <= 0 || c.lastRequest.IsZero() {
		return
	}
	elapsed := c.clock.Now().Sub(c.lastRequest)
	if remaining := c.opts.PolitenessDelay - elapsed; remaining > 0 {
		c.clock.Sleep(remaining)
	}
}
