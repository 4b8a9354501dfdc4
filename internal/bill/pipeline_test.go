package bill

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rec(order, docType, fee, code, name, quantity, amount string) Record {
	return Record{
		ColOrderNumber:  order,
		ColDocumentType: docType,
		ColFeeCategory:  fee,
		ColProductCode:  code,
		ColProductName:  name,
		ColQuantity:     quantity,
		ColAmount:       amount,
	}
}

func TestValidateRecords_EmptyBatch(t *testing.T) {
	err := ValidateRecords(nil)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "empty")
}

func TestValidateRecords_MissingColumn(t *testing.T) {
	r := rec("A", "订单", "货款", "1", "p", "1", "10")
	delete(r, ColAmount)

	err := ValidateRecords([]Record{r})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, ColAmount)
}

func TestProcess_RefundGroupExcludedFromOutput(t *testing.T) {
	records := []Record{
		rec("A", "订单", "货款", "100", "widget", "1", "100"),
		rec("A", "取消退款", "货款", "100", "widget", "1", "-100"),
		rec("B", "订单", "货款", "200", "gadget", "2", "80"),
	}

	result, err := NewEngine(zap.NewNop()).Process(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.Equal(t, "200", result.Lines[0].ProductCode)
	assert.True(t, result.Lines[0].UnitPrice.Equal(dec("40")))
}

func TestProcess_Conservation(t *testing.T) {
	// No refunds, no zero or negative totals, no unmatched adjustments:
	// output total prices must equal the surviving line amounts exactly.
	records := []Record{
		rec("A", "订单", "货款", "100", "widget", "2", "100"),
		rec("A", "订单", "运费", "100", "widget", "", "5"),
		rec("B", "订单", "货款", "200", "gadget", "1", "30"),
		rec("C", "订单", "货款", "100", "widget", "3", "150"),
		rec("C", "订单", "运费", "100", "widget", "", "7.5"),
	}

	result, err := NewEngine(zap.NewNop()).Process(context.Background(), records)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, l := range result.Lines {
		sum = sum.Add(l.TotalPrice.Decimal)
	}
	assert.True(t, sum.Equal(dec("292.5")), "got %s", sum)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, "100", result.Lines[0].ProductCode)
	assert.True(t, result.Lines[0].Quantity.Equal(dec("5")))
	assert.True(t, result.Lines[0].TotalPrice.Decimal.Equal(dec("262.5")))
	assert.True(t, result.Lines[0].UnitPrice.Equal(dec("52.5")))
}

func TestProcess_CompensationAppliedAtMostOnce(t *testing.T) {
	records := []Record{
		rec("A", "订单", "货款", "100", "widget", "1", "15"),
		rec("B", "订单", "货款", "100", "widget", "1", "30"),
		rec("C", "售后服务单", "其他", "100", "widget", "1", "-20"),
	}

	result, err := NewEngine(zap.NewNop()).Process(context.Background(), records)
	require.NoError(t, err)

	// The compensation lands on exactly one order line: 15 is untouched,
	// B's 30 becomes 10. C's own after-sales candidate has a negative
	// total and is filtered, leaving 15 + 10 = 25.
	total := decimal.Zero
	for _, l := range result.Lines {
		total = total.Add(l.TotalPrice.Decimal)
	}
	assert.True(t, total.Equal(dec("25")), "got %s", total)
}

func TestProcess_PureOrderDropsServiceFeeEndToEnd(t *testing.T) {
	records := []Record{
		rec("A", "订单", "货款", "100", "widget", "1", "100"),
		rec("A", "订单", "直营服务费", "100", "widget", "", "-8"),
	}

	result, err := NewEngine(zap.NewNop()).Process(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].TotalPrice.Decimal.Equal(dec("100")))
}

func TestProcess_Statistics(t *testing.T) {
	records := []Record{
		rec("A", "订单", "货款", "100", "widget", "1", "100"),
		rec("A", "取消退款", "货款", "100", "widget", "1", "-100"),
		rec("B", "订单", "货款", "200", "gadget", "1", "30"),
		rec("B", "订单", "货款", "200", "gadget", "1", "30"),
	}

	result, err := NewEngine(zap.NewNop()).Process(context.Background(), records)
	require.NoError(t, err)

	stats := result.Statistics
	assert.Equal(t, 4, stats.OriginalRows)
	assert.Equal(t, 2, stats.FinalRows)
	assert.Equal(t, 2, stats.OriginalOrders)
	assert.Equal(t, 1, stats.FinalOrders)
	assert.Equal(t, 3, stats.TypesBefore[DocOrder])
	assert.Equal(t, 1, stats.TypesBefore[DocCancelRefund])
	assert.Equal(t, 2, stats.TypesAfter[DocOrder])
	assert.True(t, stats.FilterRate.Equal(dec("50")), "got %s", stats.FilterRate)
}

func TestProcess_MissingQuantityAbortsWithNoPartialOutput(t *testing.T) {
	records := []Record{
		rec("A", "订单", "货款", "100", "widget", "", "100"),
	}

	result, err := NewEngine(zap.NewNop()).Process(context.Background(), records)

	var integrity *IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Nil(t, result)
}
