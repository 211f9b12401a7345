package tickets

import (
	"github.com/shopspring/decimal"

	"github.com/wrenchworks/mechshop-backend/pkg/config"
)

// CostCalculator derives a ticket's total cost from its estimate, the hourly
// rates of its assigned mechanics, and the prices of its attached parts.
type CostCalculator struct {
	laborHours decimal.Decimal
}

// NewCostCalculator builds a calculator using the configured billed hours.
func NewCostCalculator(cfg config.BillingConfig) CostCalculator {
	return CostCalculator{laborHours: decimal.NewFromFloat(cfg.LaborHours)}
}

// Total computes estimate + mean(rates) * laborHours + sum(partPrices),
// rounded to cents. Labor is zero when no mechanics are assigned.
func (c CostCalculator) Total(estimate decimal.Decimal, rates, partPrices []decimal.Decimal) decimal.Decimal {
	total := estimate

	if len(rates) > 0 {
		total = total.Add(decimal.Avg(rates[0], rates[1:]...).Mul(c.laborHours))
	}
	for _, price := range partPrices {
		total = total.Add(price)
	}

	return total.Round(2)
}
