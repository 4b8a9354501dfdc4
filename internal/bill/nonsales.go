package bill

import "go.uber.org/zap"

// AbsorbNonSales folds each non-sales adjustment line into the first line
// anywhere in the dataset whose amount strictly exceeds the adjustment's
// absolute value. The adjustment amount is signed and added, so a negative
// adjustment reduces the matched line. Adjustments are deduplicated by
// (order number, product code); only the first occurrence is applied.
//
// The scan deliberately runs over the whole dataset rather than the
// adjustment's own order. Non-sales lines are rare and a global absorber
// matches the source exports.
func AbsorbNonSales(logger *zap.Logger, lines []BillLine) []BillLine {
	out := make([]BillLine, len(lines))
	copy(out, lines)

	applied := make(map[string]bool)
	for _, line := range lines {
		if line.DocumentType != DocNonSales {
			continue
		}
		key := line.OrderNumber + "|" + NormalizeProductCode(line.ProductCode)
		if applied[key] {
			continue
		}
		applied[key] = true

		adjustment := line.Amount
		abs := adjustment.Abs()

		matched := false
		for i := range out {
			if !out[i].Amount.GreaterThan(abs) {
				continue
			}
			out[i].Amount = out[i].Amount.Add(adjustment)
			logger.Info("non-sales adjustment absorbed",
				zap.String("order_number", line.OrderNumber),
				zap.String("product_code", line.ProductCode),
				zap.String("adjustment", adjustment.String()),
				zap.String("adjusted_amount", out[i].Amount.String()),
			)
			matched = true
			break
		}
		if !matched {
			logger.Info("non-sales adjustment unmatched",
				zap.String("order_number", line.OrderNumber),
				zap.String("product_code", line.ProductCode),
				zap.String("adjustment", adjustment.String()),
			)
		}
	}
	return out
}
