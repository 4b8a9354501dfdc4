package bill

import "go.uber.org/zap"

// GroupLines groups lines under keyFn preserving the first-seen order of
// keys and of lines within each key. Lines with an empty key are skipped
// with a warning and never form a group.
func GroupLines(logger *zap.Logger, lines []BillLine, keyFn func(BillLine) string, keyName string) *OrderedMap[[]BillLine] {
	groups := NewOrderedMap[[]BillLine]()
	for i, line := range lines {
		key := keyFn(line)
		if key == "" {
			logger.Warn("skipping line with empty group key",
				zap.String("key_name", keyName),
				zap.Int("row", i),
				zap.String("product_code", line.ProductCode),
			)
			continue
		}
		existing, _ := groups.Get(key)
		groups.Set(key, append(existing, line))
	}
	return groups
}

// GroupByOrder groups lines by order number.
func GroupByOrder(logger *zap.Logger, lines []BillLine) *OrderedMap[[]BillLine] {
	return GroupLines(logger, lines, func(l BillLine) string { return l.OrderNumber }, "order_number")
}

// GroupByProduct groups lines by normalized product code.
func GroupByProduct(logger *zap.Logger, lines []BillLine) *OrderedMap[[]BillLine] {
	return GroupLines(logger, lines, func(l BillLine) string { return NormalizeProductCode(l.ProductCode) }, "product_code")
}
