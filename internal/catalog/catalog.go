// Package catalog loads per-brand product reference tables from published
// spreadsheet HTML and resolves campaign names to SKUs by substring match.
package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// Entry is one product reference row.
type Entry struct {
	SKU   string
	Brand report.Brand
}

// Catalog is an ordered product reference table for one brand. Order matters:
// SKU matching takes the first entry in source row order whose text occurs in
// the campaign name, even when a later entry would be more specific.
type Catalog struct {
	Brand   report.Brand
	Entries []Entry
}

// Match returns the first SKU (in catalog row order) that is a literal
// substring of the campaign name, or report.SKUNone when nothing matches.
func (c *Catalog) Match(campaignName string) string {
	for _, e := range c.Entries {
		if e.SKU != "" && strings.Contains(campaignName, e.SKU) {
			return e.SKU
		}
	}
	return report.SKUNone
}

// HTTPDoer executes an HTTP request. Satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader fetches published catalog sheets.
type Loader struct {
	client HTTPDoer
}

// NewLoader creates a Loader. A nil client falls back to http.DefaultClient.
func NewLoader(client HTTPDoer) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client}
}

// Load fetches the published-HTML sheet at url and extracts the SKU column of
// its first table, preserving row order.
func (l *Loader) Load(ctx context.Context, url string, brand report.Brand) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog for %s: %w", brand, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog for %s: status %d", brand, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse catalog HTML for %s: %w", brand, err)
	}

	cat, err := parseTable(doc, brand)
	if err != nil {
		return nil, err
	}

	log.Printf("[catalog] loaded %d entries for %s", len(cat.Entries), brand)
	return cat, nil
}

// parseTable extracts the SKU column from the first <table> in the document.
// The column is located by header cell text; rows above the header (sheet
// title rows) are skipped.
func parseTable(doc *goquery.Document, brand report.Brand) (*Catalog, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("catalog for %s: no table in document", brand)
	}

	skuCol := -1
	cat := &Catalog{Brand: brand}

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if skuCol < 0 {
			cells.Each(func(i int, cell *goquery.Selection) {
				if strings.EqualFold(strings.TrimSpace(cell.Text()), "SKU") {
					skuCol = i
				}
			})
			return
		}
		if cells.Length() <= skuCol {
			return
		}
		sku := strings.TrimSpace(cells.Eq(skuCol).Text())
		if sku == "" {
			return
		}
		cat.Entries = append(cat.Entries, Entry{SKU: sku, Brand: brand})
	})

	if skuCol < 0 {
		return nil, fmt.Errorf("catalog for %s: no SKU column found", brand)
	}
	return cat, nil
}
