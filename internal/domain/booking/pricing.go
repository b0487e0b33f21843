package booking

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
)

const moneyScale = 2

// EmergencyMultiplier is applied on top of the service price for emergency call-outs.
var EmergencyMultiplier = decimal.RequireFromString("1.5")

type ServiceRate struct {
	Label      string
	BasePrice  decimal.Decimal
	Multiplier decimal.Decimal
}

// ServiceCatalogue is the fixed price list used for system estimates.
var ServiceCatalogue = map[string]ServiceRate{
	"house-clearance":     {Label: "House clearance", BasePrice: decimal.NewFromInt(350), Multiplier: decimal.NewFromInt(1)},
	"office-clearance":    {Label: "Office clearance", BasePrice: decimal.NewFromInt(300), Multiplier: decimal.RequireFromString("1.2")},
	"garden-clearance":    {Label: "Garden clearance", BasePrice: decimal.NewFromInt(180), Multiplier: decimal.NewFromInt(1)},
	"removal":             {Label: "Removal", BasePrice: decimal.NewFromInt(400), Multiplier: decimal.NewFromInt(1)},
	"waste-removal":       {Label: "Waste removal", BasePrice: decimal.NewFromInt(150), Multiplier: decimal.NewFromInt(1)},
	"emergency-clearance": {Label: "Emergency clearance", BasePrice: decimal.NewFromInt(200), Multiplier: decimal.NewFromInt(1)},
}

func IsKnownServiceType(serviceType string) bool {
	_, ok := ServiceCatalogue[serviceType]
	return ok
}

type Estimate struct {
	BasePrice decimal.Decimal
	Total     decimal.Decimal
	Lines     []LineItem
}

// PriceQuote computes the system estimate for a service type and urgency.
// Line totals always add up to Total.
func PriceQuote(serviceType string, urgency Urgency) (Estimate, error) {
	rate, ok := ServiceCatalogue[serviceType]
	if !ok {
		return Estimate{}, httperr.ErrBusiness(httperr.CodeUnknownServiceType)
	}
	if !urgency.Valid() {
		return Estimate{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	base := rate.BasePrice.Round(moneyScale)
	lines := []LineItem{
		line(rate.Label, base, "labour"),
	}

	serviced := rate.BasePrice.Mul(rate.Multiplier).Round(moneyScale)
	if adj := serviced.Sub(base); !adj.IsZero() {
		lines = append(lines, line("Service adjustment", adj, "service"))
	}

	total := serviced
	if urgency == UrgencyEmergency {
		total = serviced.Mul(EmergencyMultiplier).Round(moneyScale)
		lines = append(lines, line("Emergency surcharge", total.Sub(serviced), "surcharge"))
	}

	return Estimate{
		BasePrice: base,
		Total:     total,
		Lines:     lines,
	}, nil
}

func line(description string, amount decimal.Decimal, category string) LineItem {
	return LineItem{
		Description: description,
		Quantity:    1,
		UnitPrice:   amount,
		Total:       amount,
		Category:    category,
	}
}
