package deliver

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/aggregate"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

var engine = liquid.NewEngine()

const missingSKUTemplate = `The following brands have campaigns with no SKU assigned:

{% for brand in brands %}Brand {{ brand.name }} is missing SKUs for these campaigns:
{% for campaign in brand.campaigns %}- {{ campaign }}
{% endfor %}
{% endfor %}`

// MissingSKUSubject is the subject line of the gate-block notification.
const MissingSKUSubject = "MISSING SKU FOR MULTIPLE BRANDS"

// MissingSKUBody renders the structured deficiency report: brands in sorted
// order, each with its sorted offending campaign names.
func MissingSKUBody(reg *aggregate.Registry) (string, error) {
	var brands []map[string]interface{}
	for _, b := range reg.Brands() {
		brands = append(brands, map[string]interface{}{
			"name":      string(b),
			"campaigns": reg.Campaigns(b),
		})
	}

	out, err := engine.ParseAndRenderString(missingSKUTemplate, liquid.Bindings{"brands": brands})
	if err != nil {
		return "", fmt.Errorf("render missing-SKU body: %w", err)
	}
	return out, nil
}

// SuccessSubject is the subject (and body) line of the delivery notification.
func SuccessSubject(week report.Week) string {
	return fmt.Sprintf("Marketing Weekly Data Report %s", week.RangeLabel())
}
