package report

import "fmt"

// Brand is an advertiser brand whose reports flow through the pipeline.
type Brand string

const (
	BrandBlueStars Brand = "BlueStars"
	BrandCanamax   Brand = "Canamax"
)

// Marketplace is the Amazon marketplace a report was pulled from.
type Marketplace string

const (
	MarketplaceUS Marketplace = "US"
	MarketplaceCA Marketplace = "CA"
)

// AdProduct is the advertising product type of a campaign report.
type AdProduct string

const (
	AdSponsoredProducts AdProduct = "SP"
	AdSponsoredBrands   AdProduct = "SB"
	AdSponsoredDisplay  AdProduct = "SD"
)

// Identity is the {brand, marketplace, ad product} triple that selects which
// normalization and classification rules apply to a raw report. It is decoded
// once from config at the locator boundary and threaded as a value everywhere.
type Identity struct {
	Brand       Brand       `yaml:"brand"`
	Marketplace Marketplace `yaml:"marketplace"`
	AdProduct   AdProduct   `yaml:"ad_product"`
}

// UnknownIdentityError reports an identity outside the known enumeration.
// It aborts processing of the offending report only, never its siblings.
type UnknownIdentityError struct {
	Identity Identity
	Field    string
}

func (e *UnknownIdentityError) Error() string {
	return fmt.Sprintf("report %s: unknown %s", e.Identity, e.Field)
}

// Validate returns an *UnknownIdentityError naming the first field that falls
// outside the known brand/marketplace/ad-product enumeration.
func (id Identity) Validate() error {
	switch id.Brand {
	case BrandBlueStars, BrandCanamax:
	default:
		return &UnknownIdentityError{Identity: id, Field: "brand"}
	}
	switch id.Marketplace {
	case MarketplaceUS, MarketplaceCA:
	default:
		return &UnknownIdentityError{Identity: id, Field: "marketplace"}
	}
	switch id.AdProduct {
	case AdSponsoredProducts, AdSponsoredBrands, AdSponsoredDisplay:
	default:
		return &UnknownIdentityError{Identity: id, Field: "ad product"}
	}
	return nil
}

// MarketName is the canonical market label written into output rows.
func (id Identity) MarketName() string {
	if id.Marketplace == MarketplaceCA {
		return "Canada"
	}
	return "United States"
}

// Key is the short identifier used in filenames and log lines,
// e.g. "BlueStars US SP".
func (id Identity) Key() string {
	return fmt.Sprintf("%s %s %s", id.Brand, id.Marketplace, id.AdProduct)
}

func (id Identity) String() string { return id.Key() }
