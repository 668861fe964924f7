package catalog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

type stubClient struct {
	status int
	body   string
}

func (s *stubClient) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Request:    req,
	}, nil
}

const sheetHTML = `<html><body><table>
<tr><td colspan="3">Product Reference</td></tr>
<tr><td>#</td><td>Product</td><td>SKU</td></tr>
<tr><td>1</td><td>Capacitor</td><td>CBB60</td></tr>
<tr><td>2</td><td>Capacitor 15uF</td><td>CBB60-15</td></tr>
<tr><td>3</td><td>Water Filter</td><td>W10295370A</td></tr>
<tr><td>4</td><td></td><td></td></tr>
</table></body></html>`

func TestLoaderLoad(t *testing.T) {
	l := NewLoader(&stubClient{status: http.StatusOK, body: sheetHTML})
	cat, err := l.Load(context.Background(), "https://example.com/pubhtml", report.BrandBlueStars)
	require.NoError(t, err)

	require.Len(t, cat.Entries, 3)
	assert.Equal(t, "CBB60", cat.Entries[0].SKU)
	assert.Equal(t, "CBB60-15", cat.Entries[1].SKU)
	assert.Equal(t, "W10295370A", cat.Entries[2].SKU)
	assert.Equal(t, report.BrandBlueStars, cat.Entries[0].Brand)
}

func TestLoaderErrors(t *testing.T) {
	l := NewLoader(&stubClient{status: http.StatusServiceUnavailable, body: ""})
	_, err := l.Load(context.Background(), "https://example.com/pubhtml", report.BrandCanamax)
	assert.Error(t, err)

	l = NewLoader(&stubClient{status: http.StatusOK, body: "<html><body><p>empty</p></body></html>"})
	_, err = l.Load(context.Background(), "https://example.com/pubhtml", report.BrandCanamax)
	assert.Error(t, err)
}

func TestCatalogMatchFirstInOrder(t *testing.T) {
	cat := &Catalog{
		Brand: report.BrandBlueStars,
		Entries: []Entry{
			{SKU: "CBB60", Brand: report.BrandBlueStars},
			{SKU: "CBB60-15", Brand: report.BrandBlueStars},
		},
	}

	// The short generic SKU appears earlier in catalog order and wins even
	// though the longer one also matches. Literal first-match behavior.
	assert.Equal(t, "CBB60", cat.Match("SP CBB60-15 Exact Campaign"))
	assert.Equal(t, report.SKUNone, cat.Match("Brand awareness video"))
}
