// Package mailbox defines the read-only mailbox search boundary the locator
// consumes, plus a Gmail REST implementation. Authentication happens outside
// this package; it only consumes an authorized token source.
package mailbox

import (
	"context"
	"time"
)

// Query is one bounded mailbox search: sender allow-list, exact subject, and
// a time window.
type Query struct {
	Senders []string
	Subject string
	After   time.Time
	Before  time.Time
}

// Part is one MIME part of a message. Data carries the body still in its
// transport encoding; decoding is the caller's concern.
type Part struct {
	MIMEType string
	Data     string
}

// Message is a fully read mailbox message.
type Message struct {
	ID    string
	Parts []Part
}

// Searcher is the mailbox capability the locator depends on.
type Searcher interface {
	Search(ctx context.Context, q Query, maxResults int) ([]string, error)
	Read(ctx context.Context, id string) (*Message, error)
}
