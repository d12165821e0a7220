package pricing

import (
	"voltabot/internal/catalog"

	"github.com/shopspring/decimal"
)

// Estimate is the quick-calculator price for a sensor/sheath pair and a cable
// length in meters. It does not depend on any order draft. The boolean is
// false when the result does not fit in an int64.
func Estimate(p catalog.CalculatorPricing, sensorPrice, sheathPrice int64, lengthM float64) (int64, bool) {
	base := decimal.NewFromInt(sensorPrice).
		Add(decimal.NewFromInt(sheathPrice)).
		Add(decimal.NewFromFloat(lengthM).Mul(decimal.NewFromInt(p.CablePricePerMeter))).
		Add(decimal.NewFromInt(p.AssemblyFee)).
		Add(decimal.NewFromInt(p.ExtraFee)).
		Add(decimal.NewFromInt(p.ProfitMargin))

	final := base.Mul(DifficultyFactor(p, lengthM)).Floor()
	if !fitsAmount(final) {
		return 0, false
	}
	return final.IntPart(), true
}

// DifficultyFactor picks the multiplier of the first tier whose upper bound
// is not below lengthM.
func DifficultyFactor(p catalog.CalculatorPricing, lengthM float64) decimal.Decimal {
	for _, tier := range p.Tiers {
		if lengthM <= tier.MaxLengthM {
			return decimal.RequireFromString(tier.Factor)
		}
	}
	return decimal.RequireFromString(p.TopFactor)
}
