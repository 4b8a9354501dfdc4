package bill

import "go.uber.org/zap"

// ApplyOrderRules applies the group-level inclusion rules and returns the
// surviving lines in their original group and line order. The stage is a
// pure filter: amounts are never rewritten here.
//
// Per order group:
//   - any cancel-refund document voids the whole group;
//   - a pure order group (only "order" documents) sheds its
//     direct-operation service fee lines;
//   - mixed groups pass through unchanged.
func ApplyOrderRules(logger *zap.Logger, groups *OrderedMap[[]BillLine]) []BillLine {
	var kept []BillLine
	for _, orderNo := range groups.Keys() {
		lines, _ := groups.Get(orderNo)

		types := make(map[DocumentType]bool, 2)
		for _, l := range lines {
			types[l.DocumentType] = true
		}

		if types[DocCancelRefund] {
			logger.Info("dropping refunded order group",
				zap.String("order_number", orderNo),
				zap.Int("lines", len(lines)),
			)
			continue
		}

		if len(types) == 1 && types[DocOrder] {
			for _, l := range lines {
				if l.FeeCategory == FeeDirectService {
					logger.Debug("dropping direct-operation service fee from pure order",
						zap.String("order_number", orderNo),
						zap.String("product_code", l.ProductCode),
					)
					continue
				}
				kept = append(kept, l)
			}
			continue
		}

		kept = append(kept, lines...)
	}
	return kept
}
