package report

// SKUNone is the explicit marker written when no catalog SKU matches a
// campaign name. Rows carrying it feed the missing-SKU registry.
const SKUNone = "None"

// Columns is the canonical output column order. Every serialized deliverable
// uses exactly this list; unknown source columns are dropped during
// normalization.
var Columns = []string{
	"Date",
	"Campaign Type",
	"Campaign Name",
	"Bidding strategy",
	"Impressions",
	"Clicks",
	"Spend",
	"Orders",
	"Sales",
	"Campaign Form",
	"Market",
	"Brand",
	"Cost Type",
	"SKU",
}

// Row is one campaign row in the canonical schema. Pointer fields are
// explicitly nullable: a nil means the source had no value (or the ad product
// nulls it), never that the field was omitted.
type Row struct {
	Date            *string
	CampaignType    *string
	CampaignName    string
	BiddingStrategy *string
	Impressions     *float64
	Clicks          *float64
	Spend           *float64
	Orders          *float64
	Sales           *float64
	CampaignForm    string
	Market          string
	Brand           string
	CostType        string
	SKU             string
}

// StrPtr returns a pointer to s. Convenience for building nullable cells.
func StrPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }
