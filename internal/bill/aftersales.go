package bill

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CompensationByProduct sums after-sales-service amounts per normalized
// product code across the whole original batch. Totals are computed before
// rule filtering removes any lines, so refunded orders still contribute.
func CompensationByProduct(lines []BillLine) *OrderedMap[decimal.Decimal] {
	totals := NewOrderedMap[decimal.Decimal]()
	for _, l := range lines {
		if l.DocumentType != DocAfterSales {
			continue
		}
		code := NormalizeProductCode(l.ProductCode)
		if code == "" {
			continue
		}
		existing, _ := totals.Get(code)
		totals.Set(code, existing.Add(l.Amount))
	}
	return totals
}

// ApplyAfterSalesCompensation nets each product code's compensation total
// into the first line for that code whose amount strictly exceeds the
// compensation's absolute value. At most one line per code is adjusted;
// codes with no qualifying line are left alone and logged.
//
// The input slice is not modified; adjusted copies are returned.
func ApplyAfterSalesCompensation(logger *zap.Logger, lines []BillLine, compensation *OrderedMap[decimal.Decimal]) []BillLine {
	out := make([]BillLine, len(lines))
	copy(out, lines)

	for _, code := range compensation.Keys() {
		total, _ := compensation.Get(code)
		if total.IsZero() {
			continue
		}
		abs := total.Abs()

		matched := false
		for i := range out {
			if NormalizeProductCode(out[i].ProductCode) != code {
				continue
			}
			if !out[i].Amount.GreaterThan(abs) {
				continue
			}
			out[i].Amount = out[i].Amount.Sub(abs)
			logger.Info("after-sales compensation applied",
				zap.String("product_code", code),
				zap.String("compensation", total.String()),
				zap.String("adjusted_amount", out[i].Amount.String()),
			)
			matched = true
			break
		}
		if !matched {
			logger.Info("after-sales compensation unmatched",
				zap.String("product_code", code),
				zap.String("compensation", total.String()),
			)
		}
	}
	return out
}
