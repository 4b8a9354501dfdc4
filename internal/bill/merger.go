package bill

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubstituteRecoveryFees rewrites goods-payment amounts from matching
// consolidated-delivery recovery fee lines. For each recovery fee line, the
// goods-payment line in the same order whose product name shares the first
// ten characters gets the recovery fee's amount copied over its own.
//
// The overwrite (not merge) is a quirk of the source exports and is kept
// exactly: the goods-payment amount is replaced, not accumulated.
func SubstituteRecoveryFees(logger *zap.Logger, lines []BillLine) []BillLine {
	out := make([]BillLine, len(lines))
	copy(out, lines)

	for _, line := range lines {
		if line.FeeCategory != FeeDeliveryRecovery {
			continue
		}
		prefix := namePrefix(line.ProductName)
		for i := range out {
			if out[i].OrderNumber != line.OrderNumber {
				continue
			}
			if out[i].FeeCategory != FeeGoodsPayment {
				continue
			}
			if namePrefix(out[i].ProductName) != prefix {
				continue
			}
			out[i].Amount = line.Amount
			logger.Info("recovery fee substituted into goods payment",
				zap.String("order_number", line.OrderNumber),
				zap.String("product_name", out[i].ProductName),
				zap.String("amount", line.Amount.String()),
			)
			break
		}
	}
	return out
}

// namePrefix returns the first ten characters of a product name.
func namePrefix(name string) string {
	r := []rune(name)
	if len(r) > 10 {
		r = r[:10]
	}
	return string(r)
}

// MergeWithinOrders merges lines sharing (order number, product code) into
// one candidate row each. The row's total price is the sum of the
// sub-group's amounts; its template fields (name, code, quantity) come from
// the goods-payment line, falling back to the first line of the sub-group.
// A template without a quantity value is an integrity failure: unit prices
// cannot be derived, so the stage aborts with no partial output.
func MergeWithinOrders(logger *zap.Logger, lines []BillLine) ([]MergedLine, error) {
	subgroups := NewOrderedMap[[]BillLine]()
	for _, l := range lines {
		key := l.OrderNumber + "|" + NormalizeProductCode(l.ProductCode)
		existing, _ := subgroups.Get(key)
		subgroups.Set(key, append(existing, l))
	}

	candidates := make([]MergedLine, 0, subgroups.Len())
	for _, key := range subgroups.Keys() {
		group, _ := subgroups.Get(key)

		template := group[0]
		for _, l := range group {
			if l.FeeCategory == FeeGoodsPayment {
				template = l
				break
			}
		}

		if !template.Quantity.Valid {
			return nil, &IntegrityError{Reason: fmt.Sprintf(
				"missing quantity data: order %s product %s",
				template.OrderNumber, template.ProductCode,
			)}
		}

		total := decimal.Zero
		for _, l := range group {
			total = total.Add(l.Amount)
		}
		quantity := template.Quantity.Decimal

		candidates = append(candidates, MergedLine{
			ProductName: template.ProductName,
			ProductCode: NormalizeProductCode(template.ProductCode),
			UnitPrice:   SafeDiv(total, quantity),
			Quantity:    quantity,
			TotalPrice:  decimal.NullDecimal{Decimal: total, Valid: true},
		})
	}

	logger.Debug("intra-order merge complete",
		zap.Int("input_lines", len(lines)),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// MergeAcrossOrders merges candidate rows by product code. Rows whose total
// price is null or not greater than zero are excluded from output, not
// zeroed. Accumulation preserves first-seen code order, and unit price is
// recomputed as total price over quantity after accumulation.
func MergeAcrossOrders(logger *zap.Logger, candidates []MergedLine) []MergedLine {
	merged := NewOrderedMap[MergedLine]()
	for _, row := range candidates {
		if !row.TotalPrice.Valid || !row.TotalPrice.Decimal.GreaterThan(decimal.Zero) {
			logger.Debug("excluding candidate without positive total",
				zap.String("product_code", row.ProductCode),
			)
			continue
		}

		existing, ok := merged.Get(row.ProductCode)
		if !ok {
			merged.Set(row.ProductCode, row)
			continue
		}
		existing.Quantity = existing.Quantity.Add(row.Quantity)
		existing.TotalPrice.Decimal = existing.TotalPrice.Decimal.Add(row.TotalPrice.Decimal)
		merged.Set(row.ProductCode, existing)
	}

	out := make([]MergedLine, 0, merged.Len())
	for _, code := range merged.Keys() {
		row, _ := merged.Get(code)
		row.UnitPrice = SafeDiv(row.TotalPrice.Decimal, row.Quantity)
		out = append(out, row)
	}
	return out
}
