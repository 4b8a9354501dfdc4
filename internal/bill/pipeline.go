package bill

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine runs the order-export reconciliation pipeline on one batch.
// It is stateless between batches and safe to reuse.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Result is the outcome of one pipeline run.
type Result struct {
	Lines      []MergedLine `json:"lines"`
	Statistics Statistics   `json:"statistics"`
}

// Process validates and reconciles a batch of raw export records.
//
// Stage order: parse, group by order, group-level rules, after-sales
// netting (totals taken from the original batch), non-sales absorption,
// recovery-fee substitution, intra-order merge, cross-order SKU merge,
// statistics. Every stage returns new data; records are never mutated.
func (e *Engine) Process(ctx context.Context, records []Record) (*Result, error) {
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := e.parseRecords(records)

	groups := GroupByOrder(e.logger, lines)
	compensation := CompensationByProduct(lines)

	filtered := ApplyOrderRules(e.logger, groups)
	netted := ApplyAfterSalesCompensation(e.logger, filtered, compensation)
	adjusted := AbsorbNonSales(e.logger, netted)

	substituted := SubstituteRecoveryFees(e.logger, adjusted)
	candidates, err := MergeWithinOrders(e.logger, substituted)
	if err != nil {
		return nil, err
	}
	merged := MergeAcrossOrders(e.logger, candidates)

	stats := NewStatistics(lines, adjusted)
	e.logger.Info("batch reconciled",
		zap.Int("original_rows", stats.OriginalRows),
		zap.Int("surviving_rows", stats.FinalRows),
		zap.Int("output_skus", len(merged)),
	)

	return &Result{Lines: merged, Statistics: stats}, nil
}

// ValidateRecords checks that the batch is non-empty and that the first
// record carries every required order-export column.
func ValidateRecords(records []Record) error {
	if len(records) == 0 {
		return &ValidationError{Reason: "empty batch"}
	}
	first := records[0]
	for _, col := range RequiredColumns {
		if _, ok := first[col]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("missing required column %q", col)}
		}
	}
	return nil
}

// parseRecords converts raw records to bill lines. Malformed numeric cells
// are logged and read as zero (amount) or null (quantity); classification
// strings outside the known vocabulary become the unknown variants.
func (e *Engine) parseRecords(records []Record) []BillLine {
	lines := make([]BillLine, 0, len(records))
	for i, rec := range records {
		amount, err := ParseAmount(rec[ColAmount])
		if err != nil {
			e.logger.Warn("unparseable amount, reading as zero",
				zap.Int("row", i),
				zap.String("raw", rec[ColAmount]),
			)
		}
		quantity, err := ParseQuantity(rec[ColQuantity])
		if err != nil {
			e.logger.Warn("unparseable quantity, reading as null",
				zap.Int("row", i),
				zap.String("raw", rec[ColQuantity]),
			)
		}
		lines = append(lines, BillLine{
			OrderNumber:  strings.TrimSpace(rec[ColOrderNumber]),
			DocumentType: ParseDocumentType(rec[ColDocumentType]),
			FeeCategory:  ParseFeeCategory(rec[ColFeeCategory]),
			ProductCode:  NormalizeProductCode(rec[ColProductCode]),
			ProductName:  rec[ColProductName],
			Quantity:     quantity,
			Amount:       amount,
		})
	}
	return lines
}
