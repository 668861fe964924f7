// Package locator resolves named weekly reports to their download links by
// searching the mailbox for report-ready notifications.
package locator

import (
	"context"
	"encoding/base64"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/mailbox"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// lookback bounds each search to messages received in the last five days.
const lookback = 5 * 24 * time.Hour

const maxSearchResults = 10

// Source names one report to locate: the exact subject line of its
// notification mail and the identity its contents carry.
type Source struct {
	DisplayName string
	Identity    report.Identity
}

// Locator finds report download links via a mailbox Searcher.
type Locator struct {
	searcher mailbox.Searcher
	senders  []string
}

// New creates a Locator scoped to the given sender allow-list.
func New(searcher mailbox.Searcher, senders []string) *Locator {
	return &Locator{searcher: searcher, senders: senders}
}

// Locate resolves each source to its download link. Identities with no
// matching message or no hyperlink are simply absent from the result; that is
// an expected per-report outcome, not a failure.
func (l *Locator) Locate(ctx context.Context, sources []Source, now time.Time) map[report.Identity]string {
	links := make(map[report.Identity]string, len(sources))

	for _, src := range sources {
		link, err := l.locateOne(ctx, src, now)
		if err != nil {
			log.Printf("[locator] %s: %v", src.Identity, err)
			continue
		}
		if link == "" {
			log.Printf("[locator] %s: no matching message or link for subject %q", src.Identity, src.DisplayName)
			continue
		}
		links[src.Identity] = link
	}

	return links
}

func (l *Locator) locateOne(ctx context.Context, src Source, now time.Time) (string, error) {
	q := mailbox.Query{
		Senders: l.senders,
		Subject: src.DisplayName,
		After:   now.Add(-lookback),
		Before:  now,
	}

	ids, err := l.searcher.Search(ctx, q, maxSearchResults)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}

	// At most the first matching message is consulted.
	msg, err := l.searcher.Read(ctx, ids[0])
	if err != nil {
		return "", err
	}

	for _, part := range msg.Parts {
		if part.MIMEType != "text/html" {
			continue
		}
		html, err := decodeTransport(part.Data)
		if err != nil {
			log.Printf("[locator] %s: decode html part: %v", src.Identity, err)
			continue
		}
		return firstHyperlink(html), nil
	}

	return "", nil
}

// decodeTransport decodes a body from its transport encoding: base64 with the
// URL-safe alphabet, so '-' and '_' are folded back to '+' and '/' first.
func decodeTransport(data string) (string, error) {
	data = strings.NewReplacer("-", "+", "_", "/").Replace(data)
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(raw), nil
}

// firstHyperlink returns the href of the first anchor in document order, or
// "" when the document has none.
func firstHyperlink(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	href, _ := doc.Find("a[href]").First().Attr("href")
	return href
}
