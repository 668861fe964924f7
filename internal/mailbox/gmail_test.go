package mailbox

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	lastURL   string
	responses []string
	status    int
	calls     int
}

func (r *recordingClient) Do(req *http.Request) (*http.Response, error) {
	r.lastURL = req.URL.String()
	body := "{}"
	if r.calls < len(r.responses) {
		body = r.responses[r.calls]
	}
	r.calls++
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Request:    req,
	}, nil
}

func TestBuildQuery(t *testing.T) {
	after := time.Unix(1700000000, 0)
	before := time.Unix(1700432000, 0)
	q := Query{
		Senders: []string{"noreply@amazon.com", "no-reply@amazon.com"},
		Subject: "Weekly BlueStars US Sponsored Products Campaign report",
		After:   after,
		Before:  before,
	}

	got := buildQuery(q)
	assert.Equal(t,
		`(from:noreply@amazon.com OR from:no-reply@amazon.com) subject:"Weekly BlueStars US Sponsored Products Campaign report" after:1700000000 before:1700432000`,
		got)
}

func TestGmailSearch(t *testing.T) {
	client := &recordingClient{responses: []string{`{"messages":[{"id":"m1"},{"id":"m2"}]}`}}
	g := &GmailClient{baseURL: "https://gmail.test/v1/users/me", httpClient: client}

	ids, err := g.Search(context.Background(), Query{Subject: "hello"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
	assert.Contains(t, client.lastURL, "maxResults=10")
}

func TestGmailRead(t *testing.T) {
	client := &recordingClient{responses: []string{`{
		"id": "m1",
		"payload": {
			"mimeType": "multipart/alternative",
			"body": {},
			"parts": [
				{"mimeType": "text/plain", "body": {"data": "cGxhaW4"}},
				{"mimeType": "text/html", "body": {"data": "aHRtbA"}}
			]
		}
	}`}}
	g := &GmailClient{baseURL: "https://gmail.test/v1/users/me", httpClient: client}

	msg, err := g.Read(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "text/html", msg.Parts[1].MIMEType)
	assert.Equal(t, "aHRtbA", msg.Parts[1].Data)
}

func TestGmailAPIError(t *testing.T) {
	client := &recordingClient{status: http.StatusUnauthorized, responses: []string{`{"error":"unauthorized"}`}}
	g := &GmailClient{baseURL: "https://gmail.test/v1/users/me", httpClient: client}

	_, err := g.Search(context.Background(), Query{Subject: "x"}, 1)
	assert.ErrorContains(t, err, "status 401")
}
