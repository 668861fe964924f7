package normalize

import (
	"strings"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// spRules is the ordered decision table for Sponsored Products campaigns.
// Matching is exact-token membership on the whitespace-split campaign name and
// the first rule that hits is authoritative; names satisfying several rules
// must resolve to the earliest one, so rule order is load-bearing.
var spRules = []struct {
	tokens []string
	form   string
}{
	{[]string{"Auto", "jido"}, "Auto"},
	{[]string{"Query", "query"}, "SP Query"},
	{[]string{"Research"}, "Research"},
	{[]string{"Performance"}, "Performance"},
	{[]string{"term", "terms"}, "search terms"},
	{[]string{"TD"}, "TD"},
	{[]string{"Broad"}, "SP Broad"},
	{[]string{"Exact", "EX8"}, "SP Exact"},
	{[]string{"TOS"}, "TOS"},
	{[]string{"PP"}, "PP"},
	{[]string{"PT"}, "SP PT"},
}

// sbVideoForms is the priority-ordered sub-table applied when a Sponsored
// Brands campaign name contains the "Video Ads" substring.
var sbVideoForms = []struct {
	substr string
	form   string
}{
	{"Phrase", "SB Video Phrase"},
	{"Broad", "SB Video Broad"},
	{"Exact", "SB Video Exact"},
	{"PT", "SB Video PT"},
	{"Query", "SB Video Query"},
}

// Classify assigns the campaign form tag for a campaign name under the given
// ad product. Pure and deterministic.
func Classify(campaignName string, ad report.AdProduct) string {
	switch ad {
	case report.AdSponsoredProducts:
		words := strings.Fields(campaignName)
		for _, rule := range spRules {
			if containsAny(words, rule.tokens) {
				return rule.form
			}
		}
		return "SP Phrase"

	case report.AdSponsoredBrands:
		if strings.Contains(campaignName, "Video Ads") {
			for _, v := range sbVideoForms {
				if strings.Contains(campaignName, v.substr) {
					return v.form
				}
			}
		}
		return "SB"

	case report.AdSponsoredDisplay:
		return "SD PT"
	}
	return ""
}

func containsAny(words []string, tokens []string) bool {
	for _, w := range words {
		for _, tok := range tokens {
			if w == tok {
				return true
			}
		}
	}
	return false
}
