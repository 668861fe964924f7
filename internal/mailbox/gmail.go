package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

// HTTPDoer executes an HTTP request. Satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GmailClient implements Searcher against the Gmail REST API.
type GmailClient struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewGmailClient builds a client whose requests carry OAuth tokens from the
// given source. The token source comes from the external login flow.
func NewGmailClient(ctx context.Context, ts oauth2.TokenSource) *GmailClient {
	return &GmailClient{
		baseURL:    gmailBaseURL,
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *GmailClient) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// SetBaseURL overrides the API endpoint (useful for testing).
func (c *GmailClient) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Search lists message IDs matching the query, newest first.
func (c *GmailClient) Search(ctx context.Context, q Query, maxResults int) ([]string, error) {
	params := url.Values{}
	params.Set("q", buildQuery(q))
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}

	var out struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := c.getJSON(ctx, "/messages?"+params.Encode(), &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Messages))
	for _, m := range out.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Read fetches one message in full format and flattens its MIME tree into a
// part list in document order.
func (c *GmailClient) Read(ctx context.Context, id string) (*Message, error) {
	var out struct {
		ID      string       `json:"id"`
		Payload gmailPayload `json:"payload"`
	}
	if err := c.getJSON(ctx, "/messages/"+url.PathEscape(id)+"?format=full", &out); err != nil {
		return nil, err
	}

	msg := &Message{ID: out.ID}
	collectParts(out.Payload, &msg.Parts)
	return msg, nil
}

type gmailPayload struct {
	MIMEType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []gmailPayload `json:"parts"`
}

func collectParts(p gmailPayload, out *[]Part) {
	if p.Body.Data != "" {
		*out = append(*out, Part{MIMEType: p.MIMEType, Data: p.Body.Data})
	}
	for _, child := range p.Parts {
		collectParts(child, out)
	}
}

// buildQuery renders the Gmail search expression: OR-joined sender allow-list,
// exact subject, and unix-timestamp bounds.
func buildQuery(q Query) string {
	var sb strings.Builder
	if len(q.Senders) > 0 {
		clauses := make([]string, len(q.Senders))
		for i, s := range q.Senders {
			clauses[i] = "from:" + s
		}
		fmt.Fprintf(&sb, "(%s) ", strings.Join(clauses, " OR "))
	}
	fmt.Fprintf(&sb, "subject:%q", q.Subject)
	if !q.After.IsZero() {
		fmt.Fprintf(&sb, " after:%d", q.After.Unix())
	}
	if !q.Before.IsZero() {
		fmt.Fprintf(&sb, " before:%d", q.Before.Unix())
	}
	return sb.String()
}

func (c *GmailClient) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build gmail request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gmail response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gmail API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode gmail response: %w", err)
	}
	return nil
}
