// Package fetch downloads raw report files through an authenticated session
// and parses them into tabular form, with bounded in-place retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

const (
	// DefaultMaxAttempts is the total attempt budget per link.
	DefaultMaxAttempts = 3
	// DefaultDelay is the fixed sleep between attempts. No backoff: the
	// report host recovers on its own schedule, not ours.
	DefaultDelay = 5 * time.Second
)

// Error is returned when a link's attempt budget is exhausted. Callers treat
// it as "this report is missing this run", never as process-fatal.
type Error struct {
	Link     string
	Attempts int
}

func (e *Error) Error() string {
	return fmt.Sprintf("report unavailable after %d attempts: %s", e.Attempts, e.Link)
}

// Fetcher downloads report files over an immutable authenticated session.
type Fetcher struct {
	session     HTTPDoer
	maxAttempts int
	delay       time.Duration
}

// NewFetcher creates a Fetcher. Zero maxAttempts or delay fall back to the
// defaults.
func NewFetcher(session HTTPDoer, maxAttempts int, delay time.Duration) *Fetcher {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Fetcher{session: session, maxAttempts: maxAttempts, delay: delay}
}

// Fetch streams the link through the session and parses the body, retrying on
// non-success status or unparseable content up to the attempt budget.
func (f *Fetcher) Fetch(ctx context.Context, link string) (*report.RawTable, error) {
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, f.delay); err != nil {
				return nil, err
			}
			log.Printf("[fetch] attempt %d/%d for %s", attempt, f.maxAttempts, link)
		}

		tbl, retryable, err := f.fetchOnce(ctx, link)
		if err == nil {
			return tbl, nil
		}
		if !retryable {
			return nil, err
		}
		log.Printf("[fetch] transient failure for %s: %v", link, err)
	}

	return nil, &Error{Link: link, Attempts: f.maxAttempts}
}

// fetchOnce performs a single download and parse. The second return value
// reports whether the failure class is worth another attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, link string) (*report.RawTable, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.session.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	tbl, outcome := parseBody(content)
	if outcome == Unparseable {
		return nil, true, fmt.Errorf("body not parseable as csv or xlsx (%d bytes)", len(content))
	}

	log.Printf("[fetch] parsed %s as %s: %d rows", link, outcome, len(tbl.Rows))
	return tbl, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
