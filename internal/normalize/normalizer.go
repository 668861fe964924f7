// Package normalize maps raw ad-performance reports into the canonical row
// schema and classifies campaigns into the fixed form taxonomy.
package normalize

import (
	"strconv"
	"strings"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/catalog"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// DefaultFxCADToUSD is the point-in-time CAD conversion applied to Canada
// rows when no rate is configured. Not a live FX lookup.
const DefaultFxCADToUSD = 0.76

// columnRenames maps source column names to canonical ones per ad product.
// CTR/CPC are uniform; the orders and sales columns differ by attribution
// window (7-day for SP, 14-day for SB and SD).
func columnRenames(ad report.AdProduct) map[string]string {
	renames := map[string]string{
		"Click-Thru Rate (CTR)":                    "CTR",
		"Cost Per Click (CPC)":                     "CPC",
		"Total Advertising Cost of Sales (ACOS)":   "ACOS",
		"Total Return on Advertising Spend (ROAS)": "ROAS",
	}
	if ad == report.AdSponsoredProducts {
		renames["7 Day Total Orders (#)"] = "Orders"
		renames["7 Day Total Sales"] = "Sales"
	} else {
		renames["14 Day Total Orders (#)"] = "Orders"
		renames["14 Day Total Sales"] = "Sales"
	}
	return renames
}

// currencyColumns are the source columns that arrive as currency-formatted
// text and need marker stripping before numeric parse.
var currencyColumns = map[string]bool{
	"Budget": true,
	"Spend":  true,
	"CPC":    true,
	"Sales":  true,
}

var currencyMarkers = strings.NewReplacer("CA", "", "US", "", "$", "", ",", "")

// Normalizer converts one raw report table into canonical rows.
type Normalizer struct {
	// FxCADToUSD multiplies Spend and Sales on Canada-market rows.
	FxCADToUSD float64
}

// NewNormalizer returns a Normalizer with the given conversion rate, falling
// back to DefaultFxCADToUSD when the rate is unset.
func NewNormalizer(fxCADToUSD float64) *Normalizer {
	if fxCADToUSD <= 0 {
		fxCADToUSD = DefaultFxCADToUSD
	}
	return &Normalizer{FxCADToUSD: fxCADToUSD}
}

// Normalize maps a raw table into canonical rows under the rules selected by
// the report identity. An identity outside the known enumeration is a hard
// error aborting this report only; all per-row issues degrade to nulls.
// The function is pure: the same inputs always yield the same rows.
func (n *Normalizer) Normalize(tbl *report.RawTable, id report.Identity, cat *catalog.Catalog) ([]report.Row, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	header := canonicalHeader(tbl.Header, id.AdProduct)
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}

	dateCol := col("Date")
	nameCol := col("Campaign Name")
	biddingCol := col("Bidding strategy")
	impCol := col("Impressions")
	clickCol := col("Clicks")
	spendCol := col("Spend")
	ordersCol := col("Orders")
	salesCol := col("Sales")

	market := id.MarketName()
	isCanada := id.Marketplace == report.MarketplaceCA

	rows := make([]report.Row, 0, len(tbl.Rows))
	for _, raw := range tbl.Rows {
		name := tbl.Cell(raw, nameCol)

		row := report.Row{
			CampaignName: name,
			CampaignForm: Classify(name, id.AdProduct),
			Market:       market,
			Brand:        string(id.Brand),
			CostType:     costType(name),
			SKU:          matchSKU(cat, name),
			Impressions:  parseNumber(tbl.Cell(raw, impCol), "Impressions"),
			Clicks:       parseNumber(tbl.Cell(raw, clickCol), "Clicks"),
			Spend:        parseNumber(tbl.Cell(raw, spendCol), "Spend"),
			Orders:       parseNumber(tbl.Cell(raw, ordersCol), "Orders"),
			Sales:        parseNumber(tbl.Cell(raw, salesCol), "Sales"),
		}

		if v := tbl.Cell(raw, dateCol); v != "" {
			row.Date = report.StrPtr(v)
		}

		switch id.AdProduct {
		case report.AdSponsoredProducts:
			row.CampaignType = report.StrPtr("Sponsored Products")
			if v := tbl.Cell(raw, biddingCol); v != "" {
				row.BiddingStrategy = report.StrPtr(v)
			}
		case report.AdSponsoredBrands:
			// Status, Budget, Targeting Type and Bidding strategy are not
			// meaningful for SB reports and stay null.
			row.CampaignType = report.StrPtr("Sponsor Brands")
		case report.AdSponsoredDisplay:
			row.CampaignType = report.StrPtr("Sponsor Display")
		}

		if isCanada {
			if row.Spend != nil {
				row.Spend = report.FloatPtr(*row.Spend * n.FxCADToUSD)
			}
			if row.Sales != nil {
				row.Sales = report.FloatPtr(*row.Sales * n.FxCADToUSD)
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// canonicalHeader trims every source column name and applies the per-ad-product
// rename table.
func canonicalHeader(header []string, ad report.AdProduct) []string {
	renames := columnRenames(ad)
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if canonical, ok := renames[h]; ok {
			h = canonical
		}
		out[i] = h
	}
	return out
}

// parseNumber converts a cell to a float, stripping currency markers first on
// columns that carry them. Unparseable or empty cells become null.
func parseNumber(val, column string) *float64 {
	if val == "" {
		return nil
	}
	if currencyColumns[column] {
		val = strings.TrimSpace(currencyMarkers.Replace(val))
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return report.FloatPtr(f)
}

// costType is CPM when the token appears anywhere in the campaign name.
func costType(campaignName string) string {
	if strings.Contains(campaignName, "CPM") {
		return "CPM"
	}
	return "CPC"
}

func matchSKU(cat *catalog.Catalog, campaignName string) string {
	if cat == nil {
		return report.SKUNone
	}
	return cat.Match(campaignName)
}
