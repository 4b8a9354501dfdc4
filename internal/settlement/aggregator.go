// Package settlement implements the reconciliation pipeline for
// settlement-style exports, which carry a fee-name column and one of
// several possible gross-amount columns instead of the order schema.
package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jinzhepro/jd-bill-filter/internal/bill"
)

// Column headers of the settlement export. The gross-amount column varies
// between exports; the first present candidate is used for the whole batch.
const (
	ColProductCode = "商品编号"
	ColFeeName     = "费用名称"
	ColQuantity    = "商品数量"
)

// GrossAmountColumns are the recognised gross-amount headers in priority
// order.
var GrossAmountColumns = []string{"应结金额", "金额", "合计金额", "总金额"}

// Line is one row of the settlement-pipeline output. JSON field names
// follow the export contract.
type Line struct {
	ProductCode        string              `json:"商品编号"`
	SettledAmount      decimal.Decimal     `json:"应结金额"`
	Quantity           decimal.NullDecimal `json:"数量,omitempty"`
	DirectOperationFee decimal.Decimal     `json:"直营服务费"`
	NetAmount          decimal.Decimal     `json:"净结金额"`
}

// Aggregator merges settlement exports by product code and nets the
// after-sales seller compensation pool into a single qualifying SKU.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates a settlement aggregator.
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Process aggregates one settlement batch.
//
// Rows whose fee name is the goods payment (or every row, when the export
// has no fee-name column) merge by product code. Quantity contributions
// take the sign of the current row's gross amount. The batch-wide
// after-sales seller compensation total is then added, in full, to the
// first merged SKU whose settled amount exceeds the total's absolute
// value. Entries whose settled amount is exactly zero are dropped.
func (a *Aggregator) Process(ctx context.Context, records []bill.Record) ([]Line, error) {
	grossCol, hasFeeName, hasQuantity, err := inspectSchema(records)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compensation, directFees := a.prescan(records, grossCol, hasFeeName)

	type entry struct {
		settled  decimal.Decimal
		quantity decimal.Decimal
	}
	merged := bill.NewOrderedMap[entry]()

	for i, rec := range records {
		if hasFeeName && bill.ParseFeeCategory(rec[ColFeeName]) != bill.FeeGoodsPayment {
			continue
		}
		code := bill.NormalizeProductCode(rec[ColProductCode])
		if code == "" {
			a.logger.Warn("skipping settlement row without product code", zap.Int("row", i))
			continue
		}
		gross, err := bill.ParseAmount(rec[grossCol])
		if err != nil {
			a.logger.Warn("unparseable gross amount, reading as zero",
				zap.Int("row", i),
				zap.String("raw", rec[grossCol]),
			)
		}

		e, _ := merged.Get(code)
		e.settled = e.settled.Add(gross)
		if hasQuantity {
			qty, err := bill.ParseQuantity(rec[ColQuantity])
			if err != nil {
				a.logger.Warn("unparseable quantity, ignoring",
					zap.Int("row", i),
					zap.String("raw", rec[ColQuantity]),
				)
			}
			if qty.Valid {
				contribution := qty.Decimal.Abs()
				if gross.IsNegative() {
					contribution = contribution.Neg()
				}
				e.quantity = e.quantity.Add(contribution)
			}
		}
		merged.Set(code, e)
	}

	// Net the whole compensation pool into exactly one qualifying SKU.
	if !compensation.IsZero() {
		abs := compensation.Abs()
		matched := false
		for _, code := range merged.Keys() {
			e, _ := merged.Get(code)
			if !e.settled.GreaterThan(abs) {
				continue
			}
			e.settled = e.settled.Add(compensation)
			merged.Set(code, e)
			a.logger.Info("seller compensation netted",
				zap.String("product_code", code),
				zap.String("compensation", compensation.String()),
				zap.String("settled_amount", e.settled.String()),
			)
			matched = true
			break
		}
		if !matched {
			a.logger.Info("seller compensation unmatched",
				zap.String("compensation", compensation.String()),
			)
		}
	}

	out := make([]Line, 0, merged.Len())
	for _, code := range merged.Keys() {
		e, _ := merged.Get(code)
		if e.settled.IsZero() {
			continue
		}
		fee, _ := directFees.Get(code)
		line := Line{
			ProductCode:        code,
			SettledAmount:      e.settled,
			DirectOperationFee: fee,
			NetAmount:          e.settled.Add(fee),
		}
		if hasQuantity {
			line.Quantity = decimal.NullDecimal{Decimal: e.quantity, Valid: true}
		}
		out = append(out, line)
	}
	return out, nil
}

// prescan accumulates the batch-wide seller compensation total and the
// per-product direct-operation service fee pool. Both need the fee-name
// column; without it the pools stay empty.
func (a *Aggregator) prescan(records []bill.Record, grossCol string, hasFeeName bool) (decimal.Decimal, *bill.OrderedMap[decimal.Decimal]) {
	compensation := decimal.Zero
	directFees := bill.NewOrderedMap[decimal.Decimal]()
	if !hasFeeName {
		return compensation, directFees
	}
	for _, rec := range records {
		gross, err := bill.ParseAmount(rec[grossCol])
		if err != nil {
			continue
		}
		switch bill.ParseFeeCategory(rec[ColFeeName]) {
		case bill.FeeAfterSalesComp:
			compensation = compensation.Add(gross)
		case bill.FeeDirectService:
			code := bill.NormalizeProductCode(rec[ColProductCode])
			if code == "" {
				continue
			}
			existing, _ := directFees.Get(code)
			directFees.Set(code, existing.Add(gross))
		}
	}
	return compensation, directFees
}

// inspectSchema validates the batch shape from its first record and
// resolves the gross-amount column for the whole batch.
func inspectSchema(records []bill.Record) (grossCol string, hasFeeName, hasQuantity bool, err error) {
	if len(records) == 0 {
		return "", false, false, &bill.ValidationError{Reason: "empty batch"}
	}
	first := records[0]
	if _, ok := first[ColProductCode]; !ok {
		return "", false, false, &bill.ValidationError{Reason: fmt.Sprintf("missing required column %q", ColProductCode)}
	}
	for _, col := range GrossAmountColumns {
		if _, ok := first[col]; ok {
			grossCol = col
			break
		}
	}
	if grossCol == "" {
		return "", false, false, &bill.ValidationError{Reason: "no gross amount column present"}
	}
	_, hasFeeName = first[ColFeeName]
	_, hasQuantity = first[ColQuantity]
	return grossCol, hasFeeName, hasQuantity, nil
}
