// Package aggregate unions normalized report tables, fills derived defaults,
// and decides whether the run may ship or must be blocked on missing SKUs.
package aggregate

import (
	"sort"
	"strings"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// DefaultBiddingStrategy fills rows whose source had no bidding strategy.
const DefaultBiddingStrategy = "Dynamic bids - down only"

// Table pairs one normalized table with the identity it came from. Passing
// tables as an ordered slice keeps the union deterministic without any
// process-wide accumulation.
type Table struct {
	Identity report.Identity
	Rows     []report.Row
}

// Registry is the per-brand set of distinct campaign names whose SKU is
// unresolved, after the configured ignore-lists have been subtracted. A
// non-empty registry for any brand blocks delivery.
type Registry struct {
	missing map[report.Brand]map[string]struct{}
}

// Blocked reports whether any brand still has unresolved campaigns.
func (r *Registry) Blocked() bool {
	for _, set := range r.missing {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// Brands returns the brands with unresolved campaigns, sorted.
func (r *Registry) Brands() []report.Brand {
	var out []report.Brand
	for b, set := range r.missing {
		if len(set) > 0 {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Campaigns returns the sorted offending campaign names for a brand.
func (r *Registry) Campaigns(brand report.Brand) []string {
	set := r.missing[brand]
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Aggregate unions the tables in insertion order, fills defaults, and builds
// the missing-SKU registry. ignore maps each brand to campaign names that are
// known-acceptable without a SKU.
func Aggregate(tables []Table, ignore map[report.Brand][]string) ([]report.Row, *Registry) {
	ignoreSets := make(map[report.Brand]map[string]struct{}, len(ignore))
	for brand, names := range ignore {
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		ignoreSets[brand] = set
	}

	reg := &Registry{missing: make(map[report.Brand]map[string]struct{})}
	var combined []report.Row

	for _, tbl := range tables {
		for _, row := range tbl.Rows {
			fillRow(&row)
			combined = append(combined, row)

			if row.SKU != report.SKUNone {
				continue
			}
			brand := report.Brand(row.Brand)
			if _, ignored := ignoreSets[brand][row.CampaignName]; ignored {
				continue
			}
			if reg.missing[brand] == nil {
				reg.missing[brand] = make(map[string]struct{})
			}
			reg.missing[brand][row.CampaignName] = struct{}{}
		}
	}

	return combined, reg
}

// fillRow zero-fills the numeric measures, defaults the bidding strategy, and
// trims the remaining text columns.
func fillRow(row *report.Row) {
	zero := func(f **float64) {
		if *f == nil {
			*f = report.FloatPtr(0)
		}
	}
	zero(&row.Impressions)
	zero(&row.Clicks)
	zero(&row.Spend)
	zero(&row.Orders)
	zero(&row.Sales)

	if row.BiddingStrategy == nil {
		row.BiddingStrategy = report.StrPtr(DefaultBiddingStrategy)
	} else {
		row.BiddingStrategy = report.StrPtr(strings.TrimSpace(*row.BiddingStrategy))
	}
	if row.CampaignType != nil {
		row.CampaignType = report.StrPtr(strings.TrimSpace(*row.CampaignType))
	}

	row.CampaignName = strings.TrimSpace(row.CampaignName)
	row.CampaignForm = strings.TrimSpace(row.CampaignForm)
	row.Market = strings.TrimSpace(row.Market)
	row.Brand = strings.TrimSpace(row.Brand)
	row.CostType = strings.TrimSpace(row.CostType)
	row.SKU = strings.TrimSpace(row.SKU)
}
