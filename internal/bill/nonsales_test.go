package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAbsorbNonSales_SignedAddIntoFirstQualifyingLine(t *testing.T) {
	lines := []BillLine{
		line("A", DocOrder, FeeGoodsPayment, "1", "p1", "1", "25"),
		line("B", DocOrder, FeeGoodsPayment, "2", "p2", "1", "50"),
		line("C", DocNonSales, FeeUnknown, "9", "adj", "", "-30"),
	}

	out := AbsorbNonSales(zap.NewNop(), lines)

	// 25 does not exceed 30; 50 does and takes the signed adjustment.
	assert.True(t, out[0].Amount.Equal(dec("25")))
	assert.True(t, out[1].Amount.Equal(dec("20")))
	// Input slice untouched.
	assert.True(t, lines[1].Amount.Equal(dec("50")))
}

func TestAbsorbNonSales_DuplicateKeyAppliedOnce(t *testing.T) {
	lines := []BillLine{
		line("B", DocOrder, FeeGoodsPayment, "2", "p2", "1", "50"),
		line("C", DocNonSales, FeeUnknown, "9", "adj", "", "-30"),
		line("C", DocNonSales, FeeUnknown, "9", "adj", "", "-30"),
	}

	out := AbsorbNonSales(zap.NewNop(), lines)

	assert.True(t, out[0].Amount.Equal(dec("20")))
}

func TestAbsorbNonSales_DistinctKeysBothApply(t *testing.T) {
	lines := []BillLine{
		line("B", DocOrder, FeeGoodsPayment, "2", "p2", "1", "100"),
		line("C", DocNonSales, FeeUnknown, "9", "adj", "", "-30"),
		line("D", DocNonSales, FeeUnknown, "9", "adj", "", "-30"),
	}

	out := AbsorbNonSales(zap.NewNop(), lines)

	assert.True(t, out[0].Amount.Equal(dec("40")))
}

func TestAbsorbNonSales_UnmatchedAdjustmentLeavesDataAlone(t *testing.T) {
	lines := []BillLine{
		line("B", DocOrder, FeeGoodsPayment, "2", "p2", "1", "10"),
		line("C", DocNonSales, FeeUnknown, "9", "adj", "", "-30"),
	}

	out := AbsorbNonSales(zap.NewNop(), lines)

	assert.True(t, out[0].Amount.Equal(dec("10")))
}

func TestAbsorbNonSales_PositiveAdjustmentIncreases(t *testing.T) {
	lines := []BillLine{
		line("B", DocOrder, FeeGoodsPayment, "2", "p2", "1", "50"),
		line("C", DocNonSales, FeeUnknown, "9", "adj", "", "30"),
	}

	out := AbsorbNonSales(zap.NewNop(), lines)

	assert.True(t, out[0].Amount.Equal(dec("80")))
}
