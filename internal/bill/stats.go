package bill

import "github.com/shopspring/decimal"

// Statistics summarises what the pipeline kept and dropped, for display
// next to the review table.
type Statistics struct {
	OriginalRows   int                  `json:"original_rows"`
	FinalRows      int                  `json:"final_rows"`
	OriginalOrders int                  `json:"original_orders"`
	FinalOrders    int                  `json:"final_orders"`
	TypesBefore    map[DocumentType]int `json:"types_before"`
	TypesAfter     map[DocumentType]int `json:"types_after"`
	FilterRate     decimal.Decimal      `json:"filter_rate"`
}

// NewStatistics computes counts, distinct order counts and document-type
// histograms for the original batch and the surviving line set. Pure
// function; neither input is modified.
func NewStatistics(original, final []BillLine) Statistics {
	stats := Statistics{
		OriginalRows:   len(original),
		FinalRows:      len(final),
		OriginalOrders: distinctOrders(original),
		FinalOrders:    distinctOrders(final),
		TypesBefore:    typeHistogram(original),
		TypesAfter:     typeHistogram(final),
	}
	if len(original) > 0 {
		dropped := decimal.NewFromInt(int64(len(original) - len(final)))
		stats.FilterRate = dropped.
			Div(decimal.NewFromInt(int64(len(original)))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return stats
}

func distinctOrders(lines []BillLine) int {
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if l.OrderNumber != "" {
			seen[l.OrderNumber] = true
		}
	}
	return len(seen)
}

func typeHistogram(lines []BillLine) map[DocumentType]int {
	hist := make(map[DocumentType]int)
	for _, l := range lines {
		hist[l.DocumentType]++
	}
	return hist
}
