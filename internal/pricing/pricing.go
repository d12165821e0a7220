package pricing

import (
	"math"
	"strconv"
	"voltabot/internal/catalog"
	"voltabot/internal/order"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Breakdown lists the per-unit price components of a complete draft.
type Breakdown struct {
	Base      int64
	Sensor    int64
	Dimension int64
	Wire      int64
	UnitPrice int64
	Quantity  int
	Total     int64
}

// Compute returns the total price of the draft. The boolean is false while
// any of sensor type, dimensions, wire length or quantity is still missing,
// and when the total does not fit in an int64.
func Compute(cat *catalog.Catalog, d *order.Draft) (int64, bool) {
	b, ok := Calculate(cat, d)
	if !ok {
		return 0, false
	}
	return b.Total, true
}

func Calculate(cat *catalog.Catalog, d *order.Draft) (Breakdown, bool) {
	if d == nil || !d.IsComplete(order.RequiredFields(false)) {
		return Breakdown{}, false
	}

	b := Breakdown{
		Base:     cat.BasePrice,
		Wire:     cat.WirePricePerCM * int64(*d.WireLengthCM),
		Quantity: *d.Quantity,
	}
	if opt, ok := cat.Sensor(*d.SensorType); ok {
		b.Sensor = opt.Price
	}
	if opt, ok := cat.Dimension(*d.Dimensions); ok {
		b.Dimension = opt.Price
	}

	b.UnitPrice = b.Base + b.Sensor + b.Dimension + b.Wire
	total := decimal.NewFromInt(b.UnitPrice).Mul(decimal.NewFromInt(int64(b.Quantity)))
	if !fitsAmount(total) {
		return Breakdown{}, false
	}
	b.Total = total.IntPart()
	return b, true
}

func fitsAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(maxAmount)
}

// FormatAmount renders an amount with comma thousands separators.
func FormatAmount(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if amount < 0 {
		neg = true
		s = s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
